package main

import (
	"net/http"

	"github.com/sealvault/go-sealvault/env"
	"github.com/sealvault/go-sealvault/server"
	"github.com/sealvault/go-sealvault/service/logger"
	sentryutil "github.com/sealvault/go-sealvault/service/sentry"
)

func main() {
	defer sentryutil.RecoverAndRaise(nil)

	server.Init()
	port := env.GetString("PORT")
	logger.For(nil).Infof("listening on :%s", port)
	http.ListenAndServe(":"+port, nil)
}
