package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListDecoding(t *testing.T) {
	cases := map[string]StringList{
		`["a@x","b@x","a@x"]`: {"a@x", "b@x", "a@x"},
		`"a@x"`:               {"a@x"},
		`null`:                {},
		`{"owner":["a@x"]}`:   {"a@x"},
		`{"owner":"a@x"}`:     {"a@x"},
	}
	for in, want := range cases {
		var got StringList
		require.NoError(t, json.Unmarshal([]byte(in), &got), in)
		assert.Equal(t, want, got, in)
	}
	var got StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
}

func TestStringListNilMarshalsAsArray(t *testing.T) {
	b, err := json.Marshal(struct {
		Owners StringList `json:"owners"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owners":[]}`, string(b))
}

func TestUserPropertiesDecoding(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"username":"bob","properties":{"property":{"key":"k","value":"v"}}}`), &u))
	assert.Equal(t, UserProperties{{Key: "k", Value: "v"}}, u.Properties)

	u = User{}
	require.NoError(t, json.Unmarshal([]byte(`{"username":"bob","properties":{"property":[{"key":"a","value":"1"},{"key":"b","value":"2"}]}}`), &u))
	assert.Len(t, u.Properties, 2)

	u = User{}
	require.NoError(t, json.Unmarshal([]byte(`{"username":"bob","properties":[{"key":"a","value":"1"}]}`), &u))
	assert.Equal(t, "a", u.Properties[0].Key)

	b, err := json.Marshal(User{Username: "bob"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"bob","properties":[]}`, string(b))
}

func TestUserReportOmitsUnreadUnlessSet(t *testing.T) {
	r := UserReport{User: User{Username: "dave"}, LocalUser: true}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"dave","properties":[],"loggedOn":false,"localUser":true,"rooms":[]}`, string(b))

	n := 3
	r.UnreadMessages = &n
	b, err = json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"unreadMessages":3`)
}

func TestSessionIsRemote(t *testing.T) {
	local, remote, empty := LocalNode, "node2", ""
	assert.False(t, (&Session{}).IsRemote())
	assert.False(t, (&Session{Node: &local}).IsRemote())
	assert.False(t, (&Session{Node: &empty}).IsRemote())
	assert.True(t, (&Session{Node: &remote}).IsRemote())
}

func TestBareJID(t *testing.T) {
	assert.Equal(t, "alice@example.org", BareJID("alice@example.org/laptop"))
	assert.Equal(t, "alice@example.org", BareJID("alice@example.org"))
	assert.Equal(t, "", BareJID(""))
	assert.Equal(t, "bob@localhost", UserJID("bob", "localhost"))
}

func TestMaxTimestamp(t *testing.T) {
	_, ok := SecurityAuditLogs{}.MaxTimestamp()
	assert.False(t, ok)
	max, ok := SecurityAuditLogs{Logs: []SecurityAuditLogEntry{{Timestamp: 5}, {Timestamp: 9}, {Timestamp: 7}}}.MaxTimestamp()
	assert.True(t, ok)
	assert.Equal(t, int64(9), max)
}
