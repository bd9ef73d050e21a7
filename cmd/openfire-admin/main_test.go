package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcriess/openfire-admin/openfiretest"
	"github.com/tcriess/openfire-admin/types"
)

const basicAdmin = "Basic YWRtaW46YWRtaW4="

func newServer(t *testing.T) *openfiretest.Server {
	srv := openfiretest.NewServer(t)
	srv.AuthHeader = basicAdmin
	return srv
}

func execute(t *testing.T, srv *openfiretest.Server, stdin string, args ...string) (int, string, string) {
	stdout, stderr := bytes.Buffer{}, bytes.Buffer{}
	full := append(args, "--url", srv.APIURL(), "--username", "admin", "--password", "admin", "--retry-max", "0")
	code := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestChatroomsDefaultServiceWithFailingOccupants(t *testing.T) {
	srv := newServer(t)
	srv.Rooms[""] = []types.ChatRoom{{RoomName: "lobby", Persistent: true}}
	srv.Fail["/chatrooms/lobby/occupants"] = http.StatusInternalServerError

	code, stdout, stderr := execute(t, srv, "", "chatrooms")
	require.Equal(t, 0, code, stderr)

	res := struct {
		ChatRooms []map[string]interface{} `json:"chatRooms"`
	}{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.Len(t, res.ChatRooms, 1)
	assert.Equal(t, "default", res.ChatRooms[0]["serviceName"])
	assert.Equal(t, true, res.ChatRooms[0]["persistent"])
	assert.Equal(t, []interface{}{}, res.ChatRooms[0]["occupants"])
}

func TestChatroomsRoomNameFallback(t *testing.T) {
	srv := newServer(t)
	srv.Occupants["hidden"] = []types.Occupant{{JID: "hidden@conference.localhost/bob", Role: "participant", Affiliation: "member"}}

	code, stdout, stderr := execute(t, srv, "", "chatrooms", "--room-name", "hidden", "--output-format", "text")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Room hidden:\n"+
		"  roomName: hidden\n"+
		"  occupants (1 items):\n"+
		"    [0]:\n"+
		"      jid: hidden@conference.localhost/bob\n"+
		"      role: participant\n"+
		"      affiliation: member\n", stdout)
}

func TestInvalidRoomType(t *testing.T) {
	srv := newServer(t)
	code, _, stderr := execute(t, srv, "", "chatrooms", "--room-type", "secret")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--room-type")
	assert.Empty(t, srv.Requests())
}

func TestMissingCredentials(t *testing.T) {
	srv := newServer(t)
	stdout, stderr := bytes.Buffer{}, bytes.Buffer{}
	code := run(context.Background(), []string{"users", "--url", srv.APIURL()}, nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr.String(), "Error: "))
	assert.Empty(t, stdout.String())
	assert.Empty(t, srv.Requests())
}

func TestWrongCredentials(t *testing.T) {
	srv := newServer(t)
	stdout, stderr := bytes.Buffer{}, bytes.Buffer{}
	code := run(context.Background(), []string{"sessions", "--api-url", srv.APIURL(), "--auth-header", "Basic bm9wZTpub3Bl"}, nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "authentication failed (401)")
}

func TestHTTPOutputRequiresDestination(t *testing.T) {
	srv := newServer(t)
	code, _, stderr := execute(t, srv, "", "properties", "--output-format", "http")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "configuration error")
	assert.Empty(t, srv.Requests())
}

func TestHTTPOutputRelays(t *testing.T) {
	var body []byte
	srv := newServer(t)
	srv.Properties = []types.SystemProperty{{Key: "xmpp.domain", Value: "localhost"}}
	dest := openfiretest.NewSink(t, func(r *http.Request) int {
		body, _ = ioutil.ReadAll(r.Body)
		return http.StatusOK
	})

	code, stdout, stderr := execute(t, srv, "", "properties", "--output-format", "http", "--output-destination", dest)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)
	assert.JSONEq(t, `{"properties":[{"key":"xmpp.domain","value":"localhost"}]}`, string(body))
}

func TestHTTPOutputCustomHeaders(t *testing.T) {
	var header http.Header
	srv := newServer(t)
	dest := openfiretest.NewSink(t, func(r *http.Request) int {
		header = r.Header.Clone()
		return http.StatusOK
	})

	code, _, stderr := execute(t, srv, "", "properties", "--output-format", "http", "--output-destination", dest,
		"--http-header", "X-Api-Key: secret", "--http-header", "X-Two: b, c")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "secret", header.Get("X-Api-Key"))
	assert.Equal(t, "b, c", header.Get("X-Two"))
}

func TestClientClosedWhenCommandPanics(t *testing.T) {
	a := &app{stdin: strings.NewReader(""), stdout: &bytes.Buffer{}}
	rootCmd := a.rootCmd()
	rootCmd.AddCommand(&cobra.Command{
		Use: "boom",
		RunE: func(cmd *cobra.Command, args []string) error {
			require.NotNil(t, a.client)
			panic("boom")
		},
	})
	assert.Panics(t, func() {
		a.execute(context.Background(), rootCmd, []string{"boom"}, &bytes.Buffer{})
	})
	assert.Nil(t, a.client)
}

func TestUsersReport(t *testing.T) {
	srv := newServer(t)
	local := types.LocalNode
	srv.Users = []types.User{{Username: "alice"}, {Username: "dave"}}
	srv.Sessions = []types.Session{{SessionID: "alice@localhost/laptop", Username: "alice", Node: &local}}
	srv.Rooms[""] = []types.ChatRoom{{RoomName: "lobby"}}
	srv.Occupants["lobby"] = []types.Occupant{{JID: "lobby@conference.localhost/alice"}}

	code, stdout, stderr := execute(t, srv, "", "users")
	require.Equal(t, 0, code, stderr)
	res := struct {
		Users []types.UserReport `json:"users"`
	}{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.Len(t, res.Users, 2)
	assert.True(t, res.Users[0].LoggedOn)
	assert.Equal(t, types.StringList{"lobby"}, res.Users[0].Rooms)
	assert.False(t, res.Users[1].LoggedOn)
	assert.True(t, res.Users[1].LocalUser)
	assert.Equal(t, types.StringList{}, res.Users[1].Rooms)

	code, stdout, stderr = execute(t, srv, "", "users", "--filter", "User.LoggedOn", "--output-format", "ndjson")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
	assert.Contains(t, stdout, `"username":"alice"`)
	assert.NotContains(t, stdout, `"username":"dave"`)

	srv.Unread["dave@example.org"] = 2
	code, stdout, stderr = execute(t, srv, "", "users", "--user", "dave", "--unread", "--xmpp-domain", "example.org")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"unreadMessages": 2`)
}

func TestInvalidFilter(t *testing.T) {
	srv := newServer(t)
	code, _, stderr := execute(t, srv, "", "sessions", "--filter", "Session.Nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "could not compile filter")
}

func TestGroupsLifecycle(t *testing.T) {
	srv := newServer(t)

	code, _, stderr := execute(t, srv, `{"name":"ops","members":["alice"]}`, "groups", "create", "-")
	require.Equal(t, 0, code, stderr)
	code, _, stderr = execute(t, srv, "", "groups", "update", "ops", `{"members":["alice","bob"]}`)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := execute(t, srv, "", "groups")
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, `{"groups":[{"name":"ops","members":["alice","bob"],"admins":[]}]}`, stdout)

	code, _, stderr = execute(t, srv, "", "groups", "delete", "ops")
	require.Equal(t, 0, code, stderr)
	code, _, stderr = execute(t, srv, "", "groups", "--group-name", "ops")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "resource not found")
}

func TestAuditLogIncremental(t *testing.T) {
	dir, err := ioutil.TempDir("", "auditlog")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	now := time.Now().Unix()
	srv := newServer(t)
	srv.AuditLogs = []types.SecurityAuditLogEntry{
		{LogID: 1, Username: "admin", Timestamp: now - 3600, Summary: "created user bob"},
		{LogID: 2, Username: "admin", Timestamp: now - 60, Summary: "deleted user bob"},
	}

	code, stdout, stderr := execute(t, srv, "", "auditlog", "--incremental", "--log-path", dir)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"logId": 2`)
	start, err := strconv.ParseInt(startTimeOf(t, srv.Requests()[0]), 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, now-86400, start, 5)

	code, stdout, stderr = execute(t, srv, "", "auditlog", "--incremental", "--log-path", dir)
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, `{"logs":[]}`, stdout)
	assert.Equal(t, strconv.FormatInt(now-60+1, 10), startTimeOf(t, srv.Requests()[1]))

	files, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0)
	for _, fi := range files {
		names = append(names, fi.Name())
	}
	assert.Contains(t, names, "security-logs-"+time.Now().Format("2006-01-02")+".ndjson")
}

func TestEnableLoggingAppendsPerEndpoint(t *testing.T) {
	dir, err := ioutil.TempDir("", "metrics")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	day := time.Now().Format("2006-01-02")
	readLog := func(endpoint string) string {
		b, err := ioutil.ReadFile(filepath.Join(dir, endpoint+"-"+day+".ndjson"))
		require.NoError(t, err)
		return string(b)
	}

	srv := newServer(t)
	srv.Users = []types.User{{Username: "alice"}}
	srv.Properties = []types.SystemProperty{{Key: "xmpp.domain", Value: "localhost"}}
	srv.Rosters["alice"] = []types.RosterItem{{JID: "bob@localhost", SubscriptionType: 3}}
	srv.AuditLogs = []types.SecurityAuditLogEntry{{LogID: 1, Username: "admin", Timestamp: time.Now().Unix() - 60}}

	for i := 0; i < 2; i++ {
		code, _, stderr := execute(t, srv, "", "properties", "--enable-logging", "--log-path", dir)
		require.Equal(t, 0, code, stderr)
	}
	assert.Equal(t, strings.Repeat(`{"properties":[{"key":"xmpp.domain","value":"localhost"}]}`+"\n", 2), readLog("system-properties"))

	code, stdout, stderr := execute(t, srv, "", "users", "--enable-logging", "--log-path", dir)
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, stdout, readLog("users"))

	code, stdout, stderr = execute(t, srv, "", "roster", "alice", "--enable-logging", "--log-path", dir)
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, `{"username":"alice","rosterItem":[{"jid":"bob@localhost","subscriptionType":3,"groups":[]}]}`, stdout)
	assert.JSONEq(t, stdout, readLog("user-roster"))

	code, _, stderr = execute(t, srv, "", "auditlog", "--incremental", "--enable-logging", "--log-path", dir)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 1, strings.Count(readLog("security-logs"), "\n"))

	code, _, stderr = execute(t, srv, "", "sessions", "--log-path", dir)
	require.Equal(t, 0, code, stderr)
	_, err = os.Stat(filepath.Join(dir, "sessions-"+day+".ndjson"))
	assert.True(t, os.IsNotExist(err))
}

func TestAuditLogWindow(t *testing.T) {
	srv := newServer(t)
	code, _, stderr := execute(t, srv, "", "auditlog", "--start-time", "1700000000", "--end-time", "2023-11-15 00:00:00", "--limit", "10")
	require.Equal(t, 0, code, stderr)
	req := srv.Requests()[0]
	assert.Contains(t, req, "startTime=1700000000")
	assert.Contains(t, req, "limit=10")
	assert.Contains(t, req, "endTime=")

	code, _, stderr = execute(t, srv, "", "auditlog", "--since", "10")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, srv.Requests()[1], "endTime=0")

	code, _, stderr = execute(t, srv, "", "auditlog", "--start-time", "not a date")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--start-time")
}

func TestScheduleRejectsInvalidSpec(t *testing.T) {
	srv := newServer(t)
	code, _, stderr := execute(t, srv, "", "auditlog", "--schedule", "every now and then")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid --schedule")
}

func startTimeOf(t *testing.T, request string) string {
	i := strings.Index(request, "startTime=")
	require.True(t, i >= 0, request)
	v := request[i+len("startTime="):]
	if j := strings.Index(v, "&"); j >= 0 {
		v = v[:j]
	}
	return v
}
