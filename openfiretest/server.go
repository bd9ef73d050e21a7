// Package openfiretest provides an in-memory stand-in for the OpenFire REST API plugin, used by the tests of
// the api, report and cmd packages.
package openfiretest

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/tcriess/openfire-admin/types"
)

// BasePath is the path prefix of the REST API plugin.
const BasePath = "/plugins/restapi/v1"

// Server serves the fields below under BasePath. Fields may be changed between requests, but not
// concurrently with them.
type Server struct {
	*httptest.Server

	// AuthHeader, when set, is the only Authorization header value accepted.
	AuthHeader string

	Users      []types.User
	Groups     []types.Group
	Services   []types.ChatService
	Rooms      map[string][]types.ChatRoom // by servicename parameter, "" for requests without one
	Occupants  map[string][]types.Occupant // by room name
	Sessions   []types.Session
	Properties []types.SystemProperty
	AuditLogs  []types.SecurityAuditLogEntry
	Unread     map[string]int                // by bare JID
	Rosters    map[string][]types.RosterItem // by username

	// Fail maps a path relative to BasePath (f.e. "/chatrooms/lobby/occupants") to the status returned
	// instead of the resource.
	Fail map[string]int
	// Raw maps a path relative to BasePath to a body returned verbatim with status 200.
	Raw map[string]string

	mu       sync.Mutex
	requests []string
}

// NewServer starts a fake server. It is closed when the test ends.
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		Rooms:     make(map[string][]types.ChatRoom),
		Occupants: make(map[string][]types.Occupant),
		Unread:    make(map[string]int),
		Rosters:   make(map[string][]types.RosterItem),
		Fail:      make(map[string]int),
		Raw:       make(map[string]string),
	}
	router := mux.NewRouter()
	api := router.PathPrefix(BasePath).Subrouter()
	api.Use(s.middleware)
	api.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{username}", s.getUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{username}/roster", s.getRoster).Methods(http.MethodGet)
	api.HandleFunc("/groups", s.listGroups).Methods(http.MethodGet)
	api.HandleFunc("/groups", s.createGroup).Methods(http.MethodPost)
	api.HandleFunc("/groups/{name}", s.getGroup).Methods(http.MethodGet)
	api.HandleFunc("/groups/{name}", s.updateGroup).Methods(http.MethodPut)
	api.HandleFunc("/groups/{name}", s.deleteGroup).Methods(http.MethodDelete)
	api.HandleFunc("/chatservices", s.listServices).Methods(http.MethodGet)
	api.HandleFunc("/chatrooms", s.listRooms).Methods(http.MethodGet)
	api.HandleFunc("/chatrooms/{room}/occupants", s.listOccupants).Methods(http.MethodGet)
	api.HandleFunc("/sessions", s.listSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{username}", s.listSessions).Methods(http.MethodGet)
	api.HandleFunc("/system/properties", s.listProperties).Methods(http.MethodGet)
	api.HandleFunc("/system/properties/{key}", s.getProperty).Methods(http.MethodGet)
	api.HandleFunc("/logs/security", s.listAuditLogs).Methods(http.MethodGet)
	api.HandleFunc("/archive/messages/unread/{jid}", s.unread).Methods(http.MethodGet)
	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// APIURL is the base URL to configure the client with.
func (s *Server) APIURL() string {
	return s.URL + BasePath
}

// Requests returns "METHOD /path?query" for every request received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, BasePath)
		line := r.Method + " " + path
		if r.URL.RawQuery != "" {
			line += "?" + r.URL.RawQuery
		}
		s.mu.Lock()
		s.requests = append(s.requests, line)
		s.mu.Unlock()

		if s.AuthHeader != "" && r.Header.Get("Authorization") != s.AuthHeader {
			writeError(w, http.StatusUnauthorized, "not authorized")
			return
		}
		if status, ok := s.Fail[path]; ok {
			writeError(w, status, "injected failure")
			return
		}
		if body, ok := s.Raw[path]; ok {
			w.Write([]byte(body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"exception": "FakeException", "message": message})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := strings.ReplaceAll(q.Get("search"), "*", "")
	key, value := q.Get("propertyKey"), q.Get("propertyValue")
	users := make([]types.User, 0)
	for _, u := range s.Users {
		if search != "" && !strings.Contains(u.Username, search) {
			continue
		}
		if key != "" && !hasProperty(u, key, value) {
			continue
		}
		users = append(users, u)
	}
	writeJSON(w, map[string]interface{}{"users": users})
}

func hasProperty(u types.User, key, value string) bool {
	for _, p := range u.Properties {
		if p.Key == key && (value == "" || p.Value == value) {
			return true
		}
	}
	return false
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["username"]
	for _, u := range s.Users {
		if u.Username == name {
			writeJSON(w, u)
			return
		}
	}
	writeError(w, http.StatusNotFound, "User not found")
}

func (s *Server) getRoster(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["username"]
	items, ok := s.Rosters[name]
	if !ok {
		for _, u := range s.Users {
			if u.Username == name {
				ok = true
			}
		}
	}
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if items == nil {
		items = []types.RosterItem{}
	}
	writeJSON(w, map[string]interface{}{"rosterItem": items})
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	// the listing carries no members, like the real plugin
	groups := make([]types.Group, 0, len(s.Groups))
	for _, g := range s.Groups {
		groups = append(groups, types.Group{Name: g.Name, Description: g.Description})
	}
	writeJSON(w, map[string]interface{}{"groups": groups})
}

func (s *Server) findGroup(name string) int {
	for i, g := range s.Groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	i := s.findGroup(mux.Vars(r)["name"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}
	writeJSON(w, s.Groups[i])
}

func readGroup(r *http.Request) (types.Group, error) {
	g := types.Group{}
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return g, err
	}
	err = json.Unmarshal(body, &g)
	return g, err
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	g, err := readGroup(r)
	if err != nil || g.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid group")
		return
	}
	if s.findGroup(g.Name) >= 0 {
		writeError(w, http.StatusConflict, "Group already exists")
		return
	}
	s.mu.Lock()
	s.Groups = append(s.Groups, g)
	s.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) updateGroup(w http.ResponseWriter, r *http.Request) {
	i := s.findGroup(mux.Vars(r)["name"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}
	g, err := readGroup(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid group")
		return
	}
	s.mu.Lock()
	s.Groups[i] = g
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	i := s.findGroup(mux.Vars(r)["name"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}
	s.mu.Lock()
	s.Groups = append(s.Groups[:i], s.Groups[i+1:]...)
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listServices(w http.ResponseWriter, r *http.Request) {
	services := s.Services
	if services == nil {
		services = []types.ChatService{}
	}
	writeJSON(w, map[string]interface{}{"chatServices": services})
}

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	rooms := make([]types.ChatRoom, 0)
	for _, room := range s.Rooms[q.Get("servicename")] {
		if q.Get("type") == "public" && !room.PublicRoom {
			continue
		}
		if search != "" && !strings.Contains(room.RoomName, search) {
			continue
		}
		rooms = append(rooms, room)
	}
	writeJSON(w, map[string]interface{}{"chatRooms": rooms})
}

func (s *Server) listOccupants(w http.ResponseWriter, r *http.Request) {
	occupants := s.Occupants[mux.Vars(r)["room"]]
	if occupants == nil {
		occupants = []types.Occupant{}
	}
	writeJSON(w, map[string]interface{}{"occupants": occupants})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	sessions := make([]types.Session, 0)
	for _, session := range s.Sessions {
		if username != "" && session.Username != username {
			continue
		}
		sessions = append(sessions, session)
	}
	writeJSON(w, map[string]interface{}{"sessions": sessions})
}

func (s *Server) listProperties(w http.ResponseWriter, r *http.Request) {
	props := s.Properties
	if props == nil {
		props = []types.SystemProperty{}
	}
	writeJSON(w, map[string]interface{}{"property": props})
}

func (s *Server) getProperty(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	for _, p := range s.Properties {
		if p.Key == key {
			writeJSON(w, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Property not found")
}

func (s *Server) listAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil {
		limit = 100
	}
	start, _ := strconv.ParseInt(q.Get("startTime"), 10, 64)
	end, _ := strconv.ParseInt(q.Get("endTime"), 10, 64)
	username := q.Get("username")
	logs := make([]types.SecurityAuditLogEntry, 0)
	for _, entry := range s.AuditLogs {
		if username != "" && entry.Username != username {
			continue
		}
		if entry.Timestamp < start || (end > 0 && entry.Timestamp > end) {
			continue
		}
		logs = append(logs, entry)
	}
	if offset > len(logs) {
		offset = len(logs)
	}
	logs = logs[offset:]
	if limit < len(logs) {
		logs = logs[:limit]
	}
	writeJSON(w, types.SecurityAuditLogs{Logs: logs})
}

func (s *Server) unread(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"count": s.Unread[mux.Vars(r)["jid"]]})
}

// NewSink starts a server answering every request with the status returned by handle and returns its URL.
// It stands in for the destination of the HTTP output.
func NewSink(t interface{ Cleanup(func()) }, handle func(r *http.Request) int) string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(handle(r))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}
