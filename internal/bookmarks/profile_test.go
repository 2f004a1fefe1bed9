package bookmarks

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
)

func TestProfile_DefaultThenUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.service.Profile(ctx, "alice")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if *p != *domain.DefaultProfile("alice") {
		t.Errorf("Profile() = %+v, want the default profile", p)
	}

	_, err = f.service.UpdateProfile(ctx, "alice", ProfileInput{
		EnableSharing:       true,
		EnablePublicSharing: true,
		PageSize:            10,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	stored, err := f.store.Profile(ctx, "alice")
	if err != nil {
		t.Fatalf("store Profile() error = %v", err)
	}
	want := domain.Profile{Owner: "alice", EnableSharing: true, EnablePublicSharing: true, PageSize: 10}
	if *stored != want {
		t.Errorf("stored profile = %+v, want %+v", stored, want)
	}
}

func TestUpdateProfile_Errors(t *testing.T) {
	tests := []struct {
		name      string
		actor     string
		in        ProfileInput
		wantField string
		wantErr   error
	}{
		{"negative page size", "alice", ProfileInput{PageSize: -1}, "page_size", nil},
		{"page size too large", "alice", ProfileInput{PageSize: MaxPageSize + 1}, "page_size", nil},
		{"no actor", "", ProfileInput{PageSize: 10}, "", domain.ErrPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.UpdateProfile(context.Background(), tt.actor, tt.in)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UpdateProfile() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.wantField {
				t.Errorf("UpdateProfile() error = %v, want validation error on %q", err, tt.wantField)
			}
		})
	}
}
