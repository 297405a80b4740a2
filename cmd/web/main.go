// @title           teamchat API
// @version         1.0
// @description     Workspaces, channels, direct conversations, threads and reactions.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	_ "teamchat/docs"
	"teamchat/internal/app"
)

func main() {
	app.Run()
}
