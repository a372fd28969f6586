package main

import (
	"context"
	"github.com/myrjola/cluequest/internal/e2etest"
	"github.com/stretchr/testify/require"
	"io"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Templates and static files are read relative to the repository root.
	if err := os.Chdir("../.."); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "CLUEQUEST_ADDR":
		return "localhost:0", true
	case "CLUEQUEST_SQLITE_URL":
		return ":memory:", true
	case "CLUEQUEST_AI_CLIENT":
		return "stub", true
	default:
		return "", false
	}
}

func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, io.Discard, testLookupEnv, run)
	require.NoError(t, err)
	return server
}

func Test_application_home(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("button:contains('Sign in')").Length())
	require.Equal(t, 1, doc.Find("button:contains('Register')").Length())

	doc, err = client.Register(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("button:contains('Log out')").Length())

	doc, err = client.Logout(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("button:contains('Sign in')").Length())

	doc, err = client.Login(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("button:contains('Log out')").Length())
}
