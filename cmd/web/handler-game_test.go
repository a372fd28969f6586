package main

import (
	"context"
	"github.com/myrjola/cluequest/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/url"
	"testing"
)

func Test_application_game(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.Client()

	_, err := client.Register(ctx)
	require.NoError(t, err)

	// No active case yet, the game offers to start one.
	doc, err := client.GetDoc(ctx, "/game")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("form[action='/game/start']").Length())
	assert.Contains(t, doc.Find(".level").Text(), "Level 1")

	// Starting a case lands in the clue hunt.
	doc, err = client.SubmitForm(ctx, "/game", "/game/start", nil)
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".case h2").Text(), "Blackwood Observatory")
	assert.Equal(t, 5, doc.Find(".clues li").Length(), "expected clues and red herrings in one list")

	// Examining a clue reveals its text.
	doc, err = client.SubmitForm(ctx, "/game", "/game/clue", url.Values{"clue": {"0"}})
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".clue-text").Text(), "developing trays")

	// Interview a suspect.
	doc, err = client.SubmitForm(ctx, "/game", "/game/stage", url.Values{"stage": {"interview"}})
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Find(".suspects li").Length())

	doc, err = client.SubmitForm(ctx, "/game", "/game/suspect", url.Values{"suspect": {"Tomas Reiner"}})
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".interview").Text(), "dome motor")

	// A wrong accusation keeps the case open.
	doc, err = client.SubmitForm(ctx, "/game", "/game/stage", url.Values{"stage": {"guess"}})
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/game/accuse']").Length())

	doc, err = client.SubmitForm(ctx, "/game", "/game/accuse", url.Values{"suspect": {"Henry Askel"}})
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".notice").Text(), "Wrong guess! Try again.")
	assert.Equal(t, 1, doc.Find("form[action='/game/accuse']").Length())

	// The right accusation closes the case and advances the level.
	doc, err = client.SubmitForm(ctx, "/game", "/game/accuse", url.Values{"suspect": {ai.StubCulprit}})
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".notice").Text(), "Case closed!")
	assert.Equal(t, 1, doc.Find("form[action='/game/start']").Length())
	assert.Contains(t, doc.Find(".level").Text(), "Level 2")
}
