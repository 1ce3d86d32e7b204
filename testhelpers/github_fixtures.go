package testhelpers

import (
	"github.com/google/go-github/v62/github"
)

// SampleRepoData provides common repository data for testing
type SampleRepoData struct {
	Name          string
	Owner         string
	Description   string
	Private       bool
	DefaultBranch string
}

// NewSampleRepository creates a github.Repository from sample data
func NewSampleRepository(data SampleRepoData) *github.Repository {
	return &github.Repository{
		Name:          github.String(data.Name),
		FullName:      github.String(data.Owner + "/" + data.Name),
		Owner:         &github.User{Login: github.String(data.Owner)},
		Description:   github.String(data.Description),
		Private:       github.Bool(data.Private),
		DefaultBranch: github.String(data.DefaultBranch),
		HTMLURL:       github.String("https://github.com/" + data.Owner + "/" + data.Name),
	}
}

// DefaultRepoData returns a default repository structure for testing
func DefaultRepoData() SampleRepoData {
	return SampleRepoData{
		Name:          "repo",
		Owner:         "owner",
		Description:   "A test repository",
		DefaultBranch: "main",
	}
}

// PrivateRepoData returns data for a private repository
func PrivateRepoData() SampleRepoData {
	data := DefaultRepoData()
	data.Name = "secret"
	data.Private = true
	return data
}

// SampleFiles returns a nested file set keyed by path, including
// a binary file whose bytes are not valid UTF-8
func SampleFiles() map[string][]byte {
	return map[string][]byte{
		"index.html":          []byte("<h1>hello</h1>\n"),
		"css/site.css":        []byte("body { margin: 0; }\r\n"),
		"js/app.js":           []byte("console.log('hi');\n"),
		"assets/img/logo.bin": {0x89, 0x50, 0x4e, 0x47, 0x00, 0xff, 0xfe, 0x0d, 0x0a, 0x1a},
		"docs/empty.txt":      {},
	}
}
