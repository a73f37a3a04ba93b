package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvents(t *testing.T) {
	stream := "event: connected\ndata: {\"status\":\"connected\"}\n\n" +
		": keepalive\n\n" +
		"event: notification\ndata: line1\ndata: line2\n\n"

	type evt struct{ name, data string }
	var got []evt
	err := readEvents(strings.NewReader(stream), func(event, data string) {
		got = append(got, evt{event, data})
	})

	require.NoError(t, err)
	assert.Equal(t, []evt{
		{"connected", `{"status":"connected"}`},
		{"notification", "line1\nline2"},
	}, got)
}

func TestPrintEvent_NotificationMessage(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, "notification", `{"id":"n1","message":"Bea joined. Your move!"}`, false)

	assert.True(t, strings.HasSuffix(buf.String(), "] Bea joined. Your move!\n"))
}

func TestStreamEvents_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/v1/notifications/events", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprint(w, "event: notification\ndata: {\"message\":\"hi\"}\n\n")
	}))
	defer srv.Close()

	client = NewClient(srv.URL, "tok123")
	var buf bytes.Buffer

	require.NoError(t, streamEvents(context.Background(), &buf, true))
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Contains(t, buf.String(), `"event":"notification"`)
}

func TestStreamEvents_RequiresToken(t *testing.T) {
	client = NewClient("http://127.0.0.1:1", "")

	err := streamEvents(context.Background(), &bytes.Buffer{}, false)
	assert.ErrorContains(t, err, "not signed in")
}
