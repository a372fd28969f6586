package ai

import (
	"context"
	"github.com/sashabaranov/go-openai"
)

// stubCase is a small hand-written mystery in the exact wire format the generator
// asks the completion API for.
const stubCase = `{
    "setting": "The Blackwood Observatory, a remote hilltop observatory during a meteor shower viewing night",
    "description": "Renowned astronomer Dr. Lionel Blackwood was found dead in the telescope dome at midnight, struck with a brass counterweight. The dome was locked from the inside and only four guests had keys.",
    "victim": "Dr. Lionel Blackwood, the observatory's founder, weeks away from publishing a career-defining discovery.",
    "suspects": {
        "Margaret Voss": "Blackwood's research partner of twenty years. Claims she was developing photographs in the darkroom all evening, though nobody saw her there.",
        "Henry Askel": "A wealthy donor who funded the new telescope. Says he was stargazing alone on the terrace and heard nothing.",
        "Clara Ibanez": "A doctoral student whose thesis Blackwood recently rejected. Insists she left before midnight to catch the last bus.",
        "Tomas Reiner": "The observatory caretaker. States he was repairing the dome motor in the basement workshop until one in the morning."
    },
    "clues": [
        "The darkroom's developing trays were bone dry despite Margaret Voss's claim of a full evening's work.",
        "A photographic plate in Blackwood's desk shows the discovery was made by Voss, not Blackwood.",
        "The dome's inner lock can only be worked by someone who knows the sticky latch, a trick known to staff alone."
    ],
    "red_herrings": [
        "Clara Ibanez's bus ticket was found torn up in the courtyard bin.",
        "Henry Askel's chequebook shows a cancelled donation dated the day of the murder."
    ],
    "culprit": "Margaret Voss",
    "explanation": "Voss made the discovery herself, but Blackwood planned to publish it under his own name. When he refused to credit her, she confronted him in the dome, struck him with the counterweight, and slipped out using the sticky latch she knew from decades at the observatory."
}`

// StubClient returns a canned case without calling any external API. It is used in
// tests and local development so the game can run without an API key.
type StubClient struct{}

var _ Client = (*StubClient)(nil)

func NewStubClient() *StubClient {
	return &StubClient{}
}

// StubCulprit is the correct accusation for the canned case, exported for tests.
const StubCulprit = "Margaret Voss"

func (c *StubClient) SyncCompletion(
	_ context.Context,
	_ []openai.ChatCompletionMessage,
) (string, error) {
	return stubCase, nil
}
