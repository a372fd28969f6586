package main

// Session keys for the game view. The active story is the case the player is
// currently working, the rest track navigation within it.
type sessionKey string

const activeStorySessionKey = sessionKey("activeStoryID")
const gameStageSessionKey = sessionKey("gameStage")
const selectedClueSessionKey = sessionKey("selectedClue")
const selectedSuspectSessionKey = sessionKey("selectedSuspect")
const gameNoticeSessionKey = sessionKey("gameNotice")
