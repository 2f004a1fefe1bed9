package yamlfile

// Entry is one bookmark in the import file
type Entry struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// Tags is space or comma separated
	Tags   string `yaml:"tags"`
	Shared bool   `yaml:"shared"`
	Unread bool   `yaml:"unread"`
}

// File is the root structure of an import file
type File struct {
	Owner     string  `yaml:"owner"`
	Bookmarks []Entry `yaml:"bookmarks"`
}
