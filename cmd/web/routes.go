package main

import (
	"github.com/justinas/alice"
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir("./ui/static/"))
	mux.Handle("GET /static/", cacheForeverHeaders(http.StripPrefix("/static", fileServer)))

	session := alice.New(
		app.sessionManager.LoadAndSave,
		app.webAuthnHandler.AuthenticateMiddleware,
		commonContext,
	)
	authenticated := session.Append(app.requireAuthentication)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("GET /game", authenticated.ThenFunc(app.game))
	mux.Handle("POST /game/start", authenticated.ThenFunc(app.gameStart))
	mux.Handle("POST /game/stage", authenticated.ThenFunc(app.gameStage))
	mux.Handle("POST /game/clue", authenticated.ThenFunc(app.gameClue))
	mux.Handle("POST /game/suspect", authenticated.ThenFunc(app.gameSuspect))
	mux.Handle("POST /game/accuse", authenticated.ThenFunc(app.gameAccuse))

	mux.Handle("POST /api/registration/start", session.ThenFunc(app.beginRegistration))
	mux.Handle("POST /api/registration/finish", session.ThenFunc(app.finishRegistration))
	mux.Handle("POST /api/login/start", session.ThenFunc(app.beginLogin))
	mux.Handle("POST /api/login/finish", session.ThenFunc(app.finishLogin))
	mux.Handle("POST /api/logout", session.ThenFunc(app.logout))

	mux.Handle("POST /api/game/generate", session.ThenFunc(app.generateCase))
	mux.Handle("POST /api/game/progress", session.ThenFunc(app.recordProgress))

	mux.Handle("GET /api/healthy", alice.New().ThenFunc(app.healthy))

	standard := alice.New(
		app.recoverPanic,
		app.logRequest,
		app.secureHeaders,
		noSurf,
	)
	return standard.Then(timeoutHandler(mux, defaultTimeout))
}
