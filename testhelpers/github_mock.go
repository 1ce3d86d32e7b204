package testhelpers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-github/v62/github"
)

// mockCommitTime keeps commit SHAs deterministic across runs
var mockCommitTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// MockCommit is a commit stored by the mock server
type MockCommit struct {
	SHA         string
	TreeSHA     string
	Parents     []string
	Message     string
	AuthorName  string
	AuthorEmail string
}

// MockRefUpdate records one PATCH to a ref
type MockRefUpdate struct {
	Branch      string
	SHA         string
	PreviousSHA string
	Force       bool
	Accepted    bool
}

// MockGitHubServerConfig configures the behavior of a mock GitHub server.
// Object SHAs are real Git SHA-1 hashes so content addressing holds.
type MockGitHubServerConfig struct {
	// Owner and Repo for the mock server
	Owner string
	Repo  string
	// DefaultBranch is reported by GET /repos/{owner}/{repo}
	DefaultBranch string
	// Refs maps branch names to commit SHAs
	Refs map[string]string
	// Blobs maps blob SHAs to decoded content
	Blobs map[string][]byte
	// Trees maps tree SHAs to their flattened path -> blob SHA contents
	Trees map[string]map[string]string
	// Commits maps commit SHAs to commit data
	Commits map[string]*MockCommit
	// Repositories is returned by GET /user/repos, cut to the requested per_page
	Repositories []*github.Repository
	// RefUpdateConflicts is how many ref updates are rejected with 422 before one is accepted.
	// A negative value rejects every update.
	RefUpdateConflicts int
	// ErrorResponses maps "METHOD path" (path relative to the repository, e.g. "POST /git/blobs")
	// to a status code returned instead of handling the request
	ErrorResponses map[string]int
	// BlobDelay is slept inside every blob upload, to make concurrency observable
	BlobDelay time.Duration

	// Calls records every request as "METHOD /path"
	Calls []string
	// RefUpdates records every ref PATCH
	RefUpdates []MockRefUpdate
	// CreatedRefs records branches created via POST /git/refs
	CreatedRefs []string
	// MaxConcurrentBlobs is the highest number of blob uploads seen in flight at once
	MaxConcurrentBlobs int

	blobsInFlight int
	mu            sync.Mutex
}

// NewMockGitHubServerConfig creates a new mock server config with defaults:
// a repository owner/repo whose main branch has one commit containing README.md
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	config := &MockGitHubServerConfig{
		Owner:          "owner",
		Repo:           "repo",
		DefaultBranch:  "main",
		Refs:           make(map[string]string),
		Blobs:          make(map[string][]byte),
		Trees:          make(map[string]map[string]string),
		Commits:        make(map[string]*MockCommit),
		ErrorResponses: make(map[string]int),
	}
	config.SeedCommit("main", map[string]string{"README.md": "# repo\n"}, "Initial commit")
	return config
}

// SeedCommit stores files as a new commit on top of branch (or as a root commit)
// and moves the branch to it. It returns the commit SHA.
func (c *MockGitHubServerConfig) SeedCommit(branch string, files map[string]string, message string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	flat := map[string]string{}
	var parents []string
	if head, ok := c.Refs[branch]; ok {
		parents = []string{head}
		for p, sha := range c.Trees[c.Commits[head].TreeSHA] {
			flat[p] = sha
		}
	}
	for path, content := range files {
		flat[path] = c.storeBlob([]byte(content))
	}
	treeSHA := c.storeTree(flat)
	commitSHA := c.storeCommit(&MockCommit{
		TreeSHA:     treeSHA,
		Parents:     parents,
		Message:     message,
		AuthorName:  "Seed",
		AuthorEmail: "seed@example.com",
	})
	c.Refs[branch] = commitSHA
	return commitSHA
}

// HeadFiles returns the flattened path -> content map at a branch head
func (c *MockGitHubServerConfig) HeadFiles(branch string) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	head, ok := c.Refs[branch]
	if !ok {
		return nil
	}
	files := map[string]string{}
	for path, sha := range c.Trees[c.Commits[head].TreeSHA] {
		files[path] = string(c.Blobs[sha])
	}
	return files
}

// Ref returns the commit a branch points to
func (c *MockGitHubServerConfig) Ref(branch string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sha, ok := c.Refs[branch]
	return sha, ok
}

// Commit returns a stored commit
func (c *MockGitHubServerConfig) Commit(sha string) *MockCommit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Commits[sha]
}

// CallCount returns how many recorded calls start with prefix ("POST /repos/owner/repo/git/blobs")
func (c *MockGitHubServerConfig) CallCount(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

// BlobSHA computes the Git blob SHA of content
func BlobSHA(content []byte) string {
	return plumbing.ComputeHash(plumbing.BlobObject, content).String()
}

func (c *MockGitHubServerConfig) storeBlob(content []byte) string {
	sha := BlobSHA(content)
	c.Blobs[sha] = append([]byte(nil), content...)
	return sha
}

func (c *MockGitHubServerConfig) storeTree(flat map[string]string) string {
	sha := hashTree(flat)
	c.Trees[sha] = flat
	return sha
}

func (c *MockGitHubServerConfig) storeCommit(commit *MockCommit) string {
	parents := make([]plumbing.Hash, 0, len(commit.Parents))
	for _, p := range commit.Parents {
		parents = append(parents, plumbing.NewHash(p))
	}
	sig := object.Signature{Name: commit.AuthorName, Email: commit.AuthorEmail, When: mockCommitTime}
	obj := &plumbing.MemoryObject{}
	encoded := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      commit.Message,
		TreeHash:     plumbing.NewHash(commit.TreeSHA),
		ParentHashes: parents,
	}
	if err := encoded.Encode(obj); err != nil {
		panic(err)
	}
	commit.SHA = obj.Hash().String()
	c.Commits[commit.SHA] = commit
	return commit.SHA
}

// hashTree computes the Git tree SHA of a flattened path -> blob SHA map
func hashTree(flat map[string]string) string {
	var entries []object.TreeEntry
	subdirs := map[string]map[string]string{}
	for path, sha := range flat {
		if i := strings.Index(path, "/"); i >= 0 {
			dir := path[:i]
			if subdirs[dir] == nil {
				subdirs[dir] = map[string]string{}
			}
			subdirs[dir][path[i+1:]] = sha
			continue
		}
		entries = append(entries, object.TreeEntry{Name: path, Mode: filemode.Regular, Hash: plumbing.NewHash(sha)})
	}
	for dir, sub := range subdirs {
		entries = append(entries, object.TreeEntry{Name: dir, Mode: filemode.Dir, Hash: plumbing.NewHash(hashTree(sub))})
	}

	// Git orders directories as if their names ended in "/"
	sortKey := func(e object.TreeEntry) string {
		if e.Mode == filemode.Dir {
			return e.Name + "/"
		}
		return e.Name
	}
	sort.Slice(entries, func(i, j int) bool { return sortKey(entries[i]) < sortKey(entries[j]) })

	obj := &plumbing.MemoryObject{}
	if err := (&object.Tree{Entries: entries}).Encode(obj); err != nil {
		panic(err)
	}
	return obj.Hash().String()
}

// NewMockGitHubServer creates an httptest server that mocks the GitHub Git Data and repository endpoints
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	repoPath := "/repos/" + config.Owner + "/" + config.Repo

	handler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		config.mu.Lock()
		config.Calls = append(config.Calls, r.Method+" "+path)
		var status int
		var injected bool
		if strings.HasPrefix(path, repoPath) {
			status, injected = matchErrorResponse(config.ErrorResponses, r.Method, strings.TrimPrefix(path, repoPath))
		}
		config.mu.Unlock()

		if injected {
			writeError(w, status, fmt.Sprintf("injected %d", status))
			return
		}

		switch {
		case path == "/user/repos":
			handleUserRepos(w, r, config)
		case path == repoPath:
			handleGetRepository(w, r, config)
		case strings.HasPrefix(path, repoPath+"/git/"):
			handleGitData(w, r, config, strings.TrimPrefix(path, repoPath+"/git/"))
		default:
			writeError(w, http.StatusNotFound, fmt.Sprintf("Unhandled path: %s (method: %s)", path, r.Method))
		}
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(func() { server.Close() })
	return server
}

// matchErrorResponse finds an injected status for "METHOD path", also matching path prefixes
func matchErrorResponse(responses map[string]int, method, path string) (int, bool) {
	for key, status := range responses {
		parts := strings.SplitN(key, " ", 2)
		if len(parts) != 2 || parts[0] != method {
			continue
		}
		if path == parts[1] || strings.HasPrefix(path, parts[1]+"/") {
			return status, true
		}
	}
	return 0, false
}

func handleGetRepository(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, &github.Repository{
		Name:          github.String(config.Repo),
		FullName:      github.String(config.Owner + "/" + config.Repo),
		Owner:         &github.User{Login: github.String(config.Owner)},
		DefaultBranch: github.String(config.DefaultBranch),
	})
}

func handleUserRepos(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig) {
	switch r.Method {
	case http.MethodGet:
		config.mu.Lock()
		repos := append([]*github.Repository{}, config.Repositories...)
		config.mu.Unlock()
		// only the first page is served; GitHub's default page size is 30
		perPage := 30
		if n, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && n > 0 {
			perPage = n
		}
		if len(repos) > perPage {
			repos = repos[:perPage]
		}
		writeJSON(w, http.StatusOK, repos)

	case http.MethodPost:
		var req github.Repository
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.GetName() == "" {
			writeError(w, http.StatusUnprocessableEntity, "Repository creation failed: name is missing")
			return
		}

		config.mu.Lock()
		defer config.mu.Unlock()
		for _, existing := range config.Repositories {
			if strings.EqualFold(existing.GetName(), req.GetName()) {
				writeError(w, http.StatusUnprocessableEntity, "name already exists on this account")
				return
			}
		}
		created := &github.Repository{
			Name:              req.Name,
			FullName:          github.String(config.Owner + "/" + req.GetName()),
			Owner:             &github.User{Login: github.String(config.Owner)},
			Description:       req.Description,
			Private:           github.Bool(req.GetPrivate()),
			AutoInit:          req.AutoInit,
			GitignoreTemplate: req.GitignoreTemplate,
			LicenseTemplate:   req.LicenseTemplate,
			DefaultBranch:     github.String("main"),
			HTMLURL:           github.String("https://github.com/" + config.Owner + "/" + req.GetName()),
		}
		config.Repositories = append(config.Repositories, created)
		writeJSON(w, http.StatusCreated, created)

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func handleGitData(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig, rest string) {
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(rest, "ref/heads/"):
		handleGetRef(w, config, strings.TrimPrefix(rest, "ref/heads/"))
	case r.Method == http.MethodPatch && strings.HasPrefix(rest, "refs/heads/"):
		handleUpdateRef(w, r, config, strings.TrimPrefix(rest, "refs/heads/"))
	case r.Method == http.MethodPost && rest == "refs":
		handleCreateRef(w, r, config)
	case r.Method == http.MethodPost && rest == "blobs":
		handleCreateBlob(w, r, config)
	case r.Method == http.MethodPost && rest == "trees":
		handleCreateTree(w, r, config)
	case r.Method == http.MethodGet && strings.HasPrefix(rest, "trees/"):
		handleGetTree(w, r, config, strings.TrimPrefix(rest, "trees/"))
	case r.Method == http.MethodPost && rest == "commits":
		handleCreateCommit(w, r, config)
	case r.Method == http.MethodGet && strings.HasPrefix(rest, "commits/"):
		handleGetCommit(w, config, strings.TrimPrefix(rest, "commits/"))
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unhandled git path: %s (method: %s)", rest, r.Method))
	}
}

func handleGetRef(w http.ResponseWriter, config *MockGitHubServerConfig, branch string) {
	sha, ok := config.Ref(branch)
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, reference(branch, sha))
}

func handleUpdateRef(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig, branch string) {
	var req struct {
		SHA         string `json:"sha"`
		Force       bool   `json:"force"`
		PreviousSHA string `json:"previous_sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	config.mu.Lock()
	defer config.mu.Unlock()

	update := MockRefUpdate{Branch: branch, SHA: req.SHA, PreviousSHA: req.PreviousSHA, Force: req.Force}
	current, ok := config.Refs[branch]
	switch {
	case !ok:
		config.RefUpdates = append(config.RefUpdates, update)
		writeError(w, http.StatusNotFound, "Not Found")
		return
	case config.RefUpdateConflicts != 0:
		if config.RefUpdateConflicts > 0 {
			config.RefUpdateConflicts--
		}
		config.RefUpdates = append(config.RefUpdates, update)
		writeError(w, http.StatusUnprocessableEntity, "Update is not a fast forward")
		return
	case req.PreviousSHA != "" && req.PreviousSHA != current:
		config.RefUpdates = append(config.RefUpdates, update)
		writeError(w, http.StatusUnprocessableEntity, "Reference cannot be updated")
		return
	case config.Commits[req.SHA] == nil:
		config.RefUpdates = append(config.RefUpdates, update)
		writeError(w, http.StatusUnprocessableEntity, "Object does not exist")
		return
	}

	update.Accepted = true
	config.RefUpdates = append(config.RefUpdates, update)
	config.Refs[branch] = req.SHA
	writeJSON(w, http.StatusOK, reference(branch, req.SHA))
}

func handleCreateRef(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig) {
	var req struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.HasPrefix(req.Ref, "refs/heads/") {
		writeError(w, http.StatusUnprocessableEntity, "Reference name must start with refs/heads/")
		return
	}
	branch := strings.TrimPrefix(req.Ref, "refs/heads/")

	config.mu.Lock()
	defer config.mu.Unlock()
	if _, exists := config.Refs[branch]; exists {
		writeError(w, http.StatusUnprocessableEntity, "Reference already exists")
		return
	}
	if config.Commits[req.SHA] == nil {
		writeError(w, http.StatusUnprocessableEntity, "Object does not exist")
		return
	}
	config.Refs[branch] = req.SHA
	config.CreatedRefs = append(config.CreatedRefs, branch)
	writeJSON(w, http.StatusCreated, reference(branch, req.SHA))
}

func handleCreateBlob(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig) {
	var req github.Blob
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var content []byte
	switch req.GetEncoding() {
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(req.GetContent())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid base64 content")
			return
		}
		content = decoded
	case "utf-8", "":
		content = []byte(req.GetContent())
	default:
		writeError(w, http.StatusUnprocessableEntity, "unsupported encoding")
		return
	}

	config.mu.Lock()
	config.blobsInFlight++
	if config.blobsInFlight > config.MaxConcurrentBlobs {
		config.MaxConcurrentBlobs = config.blobsInFlight
	}
	delay := config.BlobDelay
	config.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	config.mu.Lock()
	config.blobsInFlight--
	sha := config.storeBlob(content)
	config.mu.Unlock()

	writeJSON(w, http.StatusCreated, &github.Blob{SHA: github.String(sha), Size: github.Int(len(content))})
}

func handleCreateTree(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig) {
	var req struct {
		BaseTree string `json:"base_tree"`
		Tree     []struct {
			Path string `json:"path"`
			Mode string `json:"mode"`
			Type string `json:"type"`
			SHA  string `json:"sha"`
		} `json:"tree"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	config.mu.Lock()
	defer config.mu.Unlock()

	flat := map[string]string{}
	if req.BaseTree != "" {
		base, ok := config.Trees[req.BaseTree]
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "base_tree is not a valid tree")
			return
		}
		for p, sha := range base {
			flat[p] = sha
		}
	}
	for _, entry := range req.Tree {
		if entry.Path == "" || strings.HasPrefix(entry.Path, "/") || strings.HasSuffix(entry.Path, "/") || strings.Contains(entry.Path, "//") {
			writeError(w, http.StatusUnprocessableEntity, "tree.path contains a malformed path component")
			return
		}
		if _, ok := config.Blobs[entry.SHA]; !ok {
			writeError(w, http.StatusUnprocessableEntity, "tree.sha "+entry.SHA+" is not a valid blob")
			return
		}
		flat[entry.Path] = entry.SHA
	}

	sha := config.storeTree(flat)
	writeJSON(w, http.StatusCreated, &github.Tree{SHA: github.String(sha)})
}

func handleGetTree(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig, ref string) {
	ref, _ = url.PathUnescape(ref)

	config.mu.Lock()
	defer config.mu.Unlock()

	treeSHA := ""
	switch {
	case config.Trees[ref] != nil:
		treeSHA = ref
	case config.Commits[ref] != nil:
		treeSHA = config.Commits[ref].TreeSHA
	default:
		branch := ref
		if ref == "HEAD" {
			branch = config.DefaultBranch
		}
		if head, ok := config.Refs[branch]; ok {
			treeSHA = config.Commits[head].TreeSHA
		}
	}
	if treeSHA == "" {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	recursive := r.URL.Query().Get("recursive") != ""
	flat := config.Trees[treeSHA]
	dirs := map[string]bool{}
	var entries []*github.TreeEntry
	for path, sha := range flat {
		if !recursive && strings.Contains(path, "/") {
			dir := path[:strings.Index(path, "/")]
			dirs[dir] = true
			continue
		}
		if recursive {
			parts := strings.Split(path, "/")
			for i := 1; i < len(parts); i++ {
				dirs[strings.Join(parts[:i], "/")] = true
			}
		}
		entries = append(entries, &github.TreeEntry{
			Path: github.String(path),
			Mode: github.String("100644"),
			Type: github.String("blob"),
			SHA:  github.String(sha),
			Size: github.Int(len(config.Blobs[sha])),
		})
	}
	for dir := range dirs {
		entries = append(entries, &github.TreeEntry{
			Path: github.String(dir),
			Mode: github.String("040000"),
			Type: github.String("tree"),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].GetPath() < entries[j].GetPath() })

	writeJSON(w, http.StatusOK, &github.Tree{SHA: github.String(treeSHA), Entries: entries, Truncated: github.Bool(false)})
}

func handleCreateCommit(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig) {
	var req struct {
		Message string   `json:"message"`
		Tree    string   `json:"tree"`
		Parents []string `json:"parents"`
		Author  *struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"author"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	config.mu.Lock()
	defer config.mu.Unlock()

	if _, ok := config.Trees[req.Tree]; !ok {
		writeError(w, http.StatusUnprocessableEntity, "Tree SHA does not exist")
		return
	}
	for _, p := range req.Parents {
		if config.Commits[p] == nil {
			writeError(w, http.StatusUnprocessableEntity, "Parent SHA does not exist or is not a commit object")
			return
		}
	}

	commit := &MockCommit{TreeSHA: req.Tree, Parents: req.Parents, Message: req.Message}
	if req.Author != nil {
		commit.AuthorName = req.Author.Name
		commit.AuthorEmail = req.Author.Email
	}
	config.storeCommit(commit)
	writeJSON(w, http.StatusCreated, toGitHubCommit(commit))
}

func handleGetCommit(w http.ResponseWriter, config *MockGitHubServerConfig, sha string) {
	commit := config.Commit(sha)
	if commit == nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, toGitHubCommit(commit))
}

func toGitHubCommit(commit *MockCommit) *github.Commit {
	parents := make([]*github.Commit, 0, len(commit.Parents))
	for _, p := range commit.Parents {
		parents = append(parents, &github.Commit{SHA: github.String(p)})
	}
	return &github.Commit{
		SHA:     github.String(commit.SHA),
		Message: github.String(commit.Message),
		Tree:    &github.Tree{SHA: github.String(commit.TreeSHA)},
		Parents: parents,
		Author: &github.CommitAuthor{
			Name:  github.String(commit.AuthorName),
			Email: github.String(commit.AuthorEmail),
		},
	}
}

func reference(branch, sha string) *github.Reference {
	return &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha), Type: github.String("commit")},
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
