package testserver

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
)

// Server is an in-memory stand-in for a Onezone and the Oneprovider serving
// its spaces. Both APIs are served from a single TLS listener; the provider
// domain reported for every space is the listener's own host.
type Server struct {
	mu sync.Mutex

	token  string
	spaces map[string]*space
	byID   map[string]*node

	// Remaining requests to fail with 500 before serving normally again.
	failures int
	requests int

	ts *httptest.Server
}

type space struct {
	id   string
	name string
	root *node
}

type node struct {
	id      string
	name    string
	dir     bool
	mode    fs.FileMode
	content []byte
	atime   int64
	mtime   int64
	xattrs  map[string]string

	parent   *node
	children *btree.Map[string, *node]
}

func newNode(name string, dir bool) *node {
	n := &node{
		id:     uuid.NewString(),
		name:   name,
		dir:    dir,
		mode:   0o644,
		atime:  time.Now().Unix(),
		mtime:  time.Now().Unix(),
		xattrs: make(map[string]string),
	}
	if dir {
		n.mode = 0o755
		n.children = &btree.Map[string, *node]{}
	}

	return n
}

// New starts a fake Onezone/Oneprovider accepting the given access token.
func New(token string) *Server {
	s := &Server{
		token:  token,
		spaces: make(map[string]*space),
		byID:   make(map[string]*node),
	}
	s.ts = httptest.NewTLSServer(http.HandlerFunc(s.handle))

	return s
}

// Host returns the listener address in the form expected as a zone host.
func (s *Server) Host() string {
	return strings.TrimPrefix(s.ts.URL, "https://")
}

// URL returns the base URL of the listener.
func (s *Server) URL() string {
	return s.ts.URL
}

func (s *Server) Close() {
	s.ts.Close()
}

// Requests returns how many authenticated requests the server has handled.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests
}

// FailNext makes the next n requests fail with an internal server error.
func (s *Server) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures = n
}

// AddSpace creates a space and returns its id.
func (s *Server) AddSpace(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	root := newNode(name, true)
	root.id = uuid.NewString()

	sp := &space{
		id:   root.id,
		name: name,
		root: root,
	}

	s.spaces[sp.id] = sp
	s.byID[root.id] = root
	return sp.id
}

// WriteFile creates a file with the given content, creating parents as needed.
func (s *Server) WriteFile(spaceName, path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.spaceByName(spaceName)
	if sp == nil {
		panic(fmt.Sprintf("testserver: unknown space %q", spaceName))
	}

	n, err := s.create(sp, path, false, true)
	if err != nil {
		panic(fmt.Sprintf("testserver: create %s: %v", path, err))
	}
	n.content = append([]byte(nil), content...)
}

// Mkdir creates a directory, creating parents as needed.
func (s *Server) Mkdir(spaceName, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.spaceByName(spaceName)
	if sp == nil {
		panic(fmt.Sprintf("testserver: unknown space %q", spaceName))
	}

	if _, err := s.create(sp, path, true, true); err != nil {
		panic(fmt.Sprintf("testserver: mkdir %s: %v", path, err))
	}
}

// Content returns the current content of a file, or nil when it is missing.
func (s *Server) Content(spaceName, path string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.spaceByName(spaceName)
	if sp == nil {
		return nil
	}

	n := s.lookup(sp, path)
	if n == nil || n.dir {
		return nil
	}

	return append([]byte(nil), n.content...)
}

// Exists reports whether a path exists in the space.
func (s *Server) Exists(spaceName, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.spaceByName(spaceName)
	return sp != nil && s.lookup(sp, path) != nil
}

func (s *Server) spaceByName(name string) *space {
	for _, sp := range s.spaces {
		if sp.name == name {
			return sp
		}
	}

	return nil
}

func (s *Server) lookup(sp *space, path string) *node {
	current := sp.root
	for _, segment := range splitPath(path) {
		if !current.dir {
			return nil
		}

		child, ok := current.children.Get(segment)
		if !ok {
			return nil
		}
		current = child
	}

	return current
}

func (s *Server) create(sp *space, path string, dir, parents bool) (*node, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, fmt.Errorf("eexist")
	}

	current := sp.root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := current.children.Get(segment)
		if !ok {
			if !parents {
				return nil, fmt.Errorf("enoent")
			}
			child = newNode(segment, true)
			child.parent = current
			current.children.Set(segment, child)
			s.byID[child.id] = child
		}
		if !child.dir {
			return nil, fmt.Errorf("enotdir")
		}
		current = child
	}

	name := segments[len(segments)-1]
	if _, ok := current.children.Get(name); ok {
		return nil, fmt.Errorf("eexist")
	}

	child := newNode(name, dir)
	child.parent = current
	current.children.Set(name, child)
	s.byID[child.id] = child
	return child, nil
}

func (s *Server) remove(n *node) {
	if n.dir {
		n.children.Ascend("", func(_ string, child *node) bool {
			s.remove(child)
			return true
		})
	}

	if n.parent != nil {
		n.parent.children.Delete(n.name)
	}
	delete(s.byID, n.id)
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}

	return strings.Split(trimmed, "/")
}

func writeError(w http.ResponseWriter, status int, errno, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := map[string]any{
		"error": map[string]any{
			"id": "posix",
			"details": map[string]any{
				"errno": errno,
			},
			"description": description,
		},
	}
	json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (n *node) wireType() string {
	if n.dir {
		return "DIR"
	}

	return "REG"
}

func (n *node) attributes() map[string]any {
	return map[string]any{
		"fileId":           n.id,
		"name":             n.name,
		"type":             n.wireType(),
		"mode":             strconv.FormatUint(uint64(n.mode), 8),
		"size":             len(n.content),
		"atime":            n.atime,
		"mtime":            n.mtime,
		"ctime":            n.mtime,
		"storage_user_id":  1000,
		"storage_group_id": 1000,
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures > 0 {
		s.failures--
		writeError(w, http.StatusInternalServerError, "", "injected failure")
		return
	}

	if r.Header.Get("X-Auth-Token") != s.token {
		writeError(w, http.StatusUnauthorized, "eacces", "invalid token")
		return
	}
	s.requests++

	switch {
	case strings.HasPrefix(r.URL.Path, "/api/v3/onezone/"):
		s.handleZone(w, r, strings.TrimPrefix(r.URL.Path, "/api/v3/onezone"))
	case strings.HasPrefix(r.URL.Path, "/api/v3/oneprovider/"):
		s.handleProvider(w, r, strings.TrimPrefix(r.URL.Path, "/api/v3/oneprovider"))
	case strings.HasPrefix(r.URL.Path, "/cdmi/"):
		s.handleMove(w, r, strings.TrimPrefix(r.URL.Path, "/cdmi/"))
	default:
		writeError(w, http.StatusNotFound, "enoent", "unknown endpoint")
	}
}

func (s *Server) handleZone(w http.ResponseWriter, r *http.Request, path string) {
	switch {
	case path == "/user/effective_spaces":
		ids := make([]string, 0, len(s.spaces))
		for id := range s.spaces {
			ids = append(ids, id)
		}
		writeJSON(w, http.StatusOK, map[string]any{"spaces": ids})

	case strings.HasPrefix(path, "/user/effective_spaces/"):
		id := strings.TrimPrefix(path, "/user/effective_spaces/")
		sp, ok := s.spaces[id]
		if !ok {
			writeError(w, http.StatusNotFound, "enoent", "no such space")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"spaceId": sp.id,
			"name":    sp.name,
			"providers": map[string]any{
				"provider-" + sp.id: 1,
			},
		})

	case strings.HasPrefix(path, "/providers/"):
		id := strings.TrimPrefix(path, "/providers/")
		writeJSON(w, http.StatusOK, map[string]any{
			"providerId": id,
			"name":       "test-provider",
			"domain":     s.Host(),
		})

	default:
		writeError(w, http.StatusNotFound, "enoent", "unknown endpoint")
	}
}

func (s *Server) handleProvider(w http.ResponseWriter, r *http.Request, path string) {
	if strings.HasPrefix(path, "/lookup-file-id/") {
		s.handleLookup(w, r, strings.TrimPrefix(path, "/lookup-file-id/"))
		return
	}

	if !strings.HasPrefix(path, "/data/") {
		writeError(w, http.StatusNotFound, "enoent", "unknown endpoint")
		return
	}

	rest := strings.TrimPrefix(path, "/data/")
	id, sub, _ := strings.Cut(rest, "/")

	if strings.HasPrefix(sub, "path/") || (sub == "path" && r.Method == http.MethodPut) {
		s.handleByPath(w, r, id, strings.TrimPrefix(sub, "path"))
		return
	}

	n, ok := s.byID[id]
	if !ok {
		writeError(w, http.StatusNotFound, "enoent", "no such file")
		return
	}

	switch sub {
	case "":
		s.handleAttributes(w, r, n)
	case "children":
		s.handleChildren(w, r, n)
	case "content":
		s.handleContent(w, r, n)
	case "metadata/xattrs":
		s.handleXattrs(w, r, n)
	default:
		writeError(w, http.StatusNotFound, "enoent", "unknown endpoint")
	}
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request, rest string) {
	spaceName, filePath, _ := strings.Cut(rest, "/")
	name, err := url.PathUnescape(spaceName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "einval", "bad space name")
		return
	}

	sp := s.spaceByName(name)
	if sp == nil {
		writeError(w, http.StatusNotFound, "enoent", "no such space")
		return
	}

	unescaped, err := url.PathUnescape(filePath)
	if err != nil {
		writeError(w, http.StatusBadRequest, "einval", "bad path")
		return
	}

	n := s.lookup(sp, unescaped)
	if n == nil {
		writeError(w, http.StatusNotFound, "enoent", "no such file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"fileId": n.id})
}

func (s *Server) handleAttributes(w http.ResponseWriter, r *http.Request, n *node) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, n.attributes())

	case http.MethodPut:
		var update struct {
			Mode *string `json:"mode"`
			Size *int64  `json:"size"`
		}
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "einval", "bad update body")
			return
		}

		if update.Mode != nil {
			mode, err := strconv.ParseUint(*update.Mode, 8, 32)
			if err != nil {
				writeError(w, http.StatusBadRequest, "einval", "bad mode")
				return
			}
			n.mode = fs.FileMode(mode) & fs.ModePerm
		}
		if update.Size != nil {
			if n.dir {
				writeError(w, http.StatusBadRequest, "eisdir", "cannot resize a directory")
				return
			}
			size := int(*update.Size)
			if size < 0 {
				writeError(w, http.StatusBadRequest, "einval", "negative size")
				return
			}
			if size <= len(n.content) {
				n.content = n.content[:size]
			} else {
				n.content = append(n.content, make([]byte, size-len(n.content))...)
			}
			n.mtime = time.Now().Unix()
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	}
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request, n *node) {
	if !n.dir {
		writeError(w, http.StatusBadRequest, "enotdir", "not a directory")
		return
	}

	limit := 1000
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "einval", "bad limit")
			return
		}
		limit = parsed
	}
	token := r.URL.Query().Get("token")

	children := make([]map[string]any, 0, limit)
	last := ""
	more := false

	n.children.Ascend("", func(name string, child *node) bool {
		if token != "" && name <= token {
			return true
		}
		if len(children) == limit {
			more = true
			return false
		}

		children = append(children, child.attributes())
		last = name
		return true
	})

	page := map[string]any{
		"children": children,
		"isLast":   !more,
	}
	if more {
		page["nextPageToken"] = last
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request, n *node) {
	if n.dir {
		writeError(w, http.StatusBadRequest, "eisdir", "is a directory")
		return
	}

	switch r.Method {
	case http.MethodGet:
		start, end := int64(0), int64(len(n.content))
		if rng := r.Header.Get("Range"); rng != "" {
			var from, to int64
			if _, err := fmt.Sscanf(rng, "bytes=%d-%d", &from, &to); err != nil {
				writeError(w, http.StatusBadRequest, "einval", "bad range")
				return
			}
			start = from
			if to+1 < end {
				end = to + 1
			}
		}
		if start > end {
			start = end
		}

		w.WriteHeader(http.StatusPartialContent)
		w.Write(n.content[start:end])

	case http.MethodPut:
		offset := int64(0)
		if raw := r.URL.Query().Get("offset"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 0 {
				writeError(w, http.StatusBadRequest, "einval", "bad offset")
				return
			}
			offset = parsed
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "einval", "bad body")
			return
		}

		if grown := offset + int64(len(body)); grown > int64(len(n.content)) {
			n.content = append(n.content, make([]byte, grown-int64(len(n.content)))...)
		}
		copy(n.content[offset:], body)
		n.mtime = time.Now().Unix()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	}
}

func (s *Server) handleByPath(w http.ResponseWriter, r *http.Request, spaceID, filePath string) {
	sp, ok := s.spaces[spaceID]
	if !ok {
		writeError(w, http.StatusNotFound, "enoent", "no such space")
		return
	}

	unescaped, err := url.PathUnescape(filePath)
	if err != nil {
		writeError(w, http.StatusBadRequest, "einval", "bad path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		dir := r.URL.Query().Get("type") == "DIR"
		parents := r.URL.Query().Get("create_parents") == "true"

		n, err := s.create(sp, unescaped, dir, parents)
		if err != nil {
			errno := err.Error()
			status := http.StatusBadRequest
			if errno == "enoent" {
				status = http.StatusNotFound
			}
			writeError(w, status, errno, "create failed")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"fileId": n.id})

	case http.MethodDelete:
		n := s.lookup(sp, unescaped)
		if n == nil || n == sp.root {
			writeError(w, http.StatusNotFound, "enoent", "no such file")
			return
		}
		s.remove(n)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	}
}

func (s *Server) handleXattrs(w http.ResponseWriter, r *http.Request, n *node) {
	switch r.Method {
	case http.MethodGet:
		names := r.URL.Query()["attribute"]
		if len(names) == 0 {
			writeJSON(w, http.StatusOK, n.xattrs)
			return
		}

		selected := make(map[string]string, len(names))
		for _, name := range names {
			value, ok := n.xattrs[name]
			if !ok {
				writeError(w, http.StatusBadRequest, "enodata", "no such attribute")
				return
			}
			selected[name] = value
		}
		writeJSON(w, http.StatusOK, selected)

	case http.MethodPut:
		var xattrs map[string]string
		if err := json.NewDecoder(r.Body).Decode(&xattrs); err != nil {
			writeError(w, http.StatusBadRequest, "einval", "bad xattr body")
			return
		}
		for key, value := range xattrs {
			n.xattrs[key] = value
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		var body struct {
			Keys []string `json:"keys"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "einval", "bad xattr body")
			return
		}
		for _, key := range body.Keys {
			delete(n.xattrs, key)
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	}
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, rest string) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
		return
	}

	dstSpaceName, dstPath, _ := strings.Cut(rest, "/")
	name, err := url.PathUnescape(dstSpaceName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "einval", "bad space name")
		return
	}

	dstSpace := s.spaceByName(name)
	if dstSpace == nil {
		writeError(w, http.StatusNotFound, "enoent", "no such space")
		return
	}

	unescapedDst, err := url.PathUnescape(dstPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, "einval", "bad path")
		return
	}

	var body struct {
		Move string `json:"move"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "einval", "bad move body")
		return
	}

	srcSpaceName, srcPath, _ := strings.Cut(body.Move, "/")
	srcSpace := s.spaceByName(srcSpaceName)
	if srcSpace == nil {
		writeError(w, http.StatusNotFound, "enoent", "no such space")
		return
	}

	src := s.lookup(srcSpace, srcPath)
	if src == nil || src == srcSpace.root {
		writeError(w, http.StatusNotFound, "enoent", "no such file")
		return
	}

	segments := splitPath(unescapedDst)
	if len(segments) == 0 {
		writeError(w, http.StatusBadRequest, "einval", "bad destination")
		return
	}

	parent := dstSpace.root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := parent.children.Get(segment)
		if !ok || !child.dir {
			writeError(w, http.StatusNotFound, "enoent", "no such directory")
			return
		}
		parent = child
	}

	dstName := segments[len(segments)-1]
	if existing, ok := parent.children.Get(dstName); ok {
		s.remove(existing)
	}

	src.parent.children.Delete(src.name)
	src.name = dstName
	src.parent = parent
	parent.children.Set(dstName, src)

	w.WriteHeader(http.StatusNoContent)
}
