package models

// UpdateManifest is the desktop app release feed, served as YAML.
type UpdateManifest struct {
	Version     string         `yaml:"version" json:"version" validate:"required"`
	Path        string         `yaml:"path,omitempty" json:"path,omitempty"`
	SHA512      string         `yaml:"sha512,omitempty" json:"sha512,omitempty"`
	ReleaseDate string         `yaml:"releaseDate,omitempty" json:"releaseDate,omitempty"`
	Files       []UpdateFile   `yaml:"files,omitempty" json:"files,omitempty" validate:"dive"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// UpdateFile is one downloadable artifact of a release.
type UpdateFile struct {
	URL    string `yaml:"url" json:"url" validate:"required"`
	SHA512 string `yaml:"sha512,omitempty" json:"sha512,omitempty"`
	Size   int64  `yaml:"size,omitempty" json:"size,omitempty"`
}
