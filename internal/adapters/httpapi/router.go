package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Radio/internal/adapters/listen"
	"github.com/dkeye/Radio/internal/app"
	"github.com/dkeye/Radio/internal/config"
	"github.com/dkeye/Radio/internal/domain"
)

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator, pl domain.Playlist) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("RadioSessions", store))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.httpapi").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	// The shared playlist source. Every client fetches the same ordered
	// list once at startup; a trackIndex on the wire refers into it.
	api.GET("/playlist", func(c *gin.Context) {
		c.JSON(http.StatusOK, pl)
	})

	api.GET("/listeners", func(c *gin.Context) {
		snap := orch.Station.Snapshot()
		users := make([]string, len(snap))
		for i, sid := range snap {
			users[i] = string(sid)
		}
		c.JSON(http.StatusOK, gin.H{
			"count": len(users),
			"users": users,
		})
	})

	// Display name for the web UI, kept in the cookie session. The sync
	// protocol itself never sees it.
	api.GET("/name", func(c *gin.Context) {
		s := sessions.Default(c)
		name, _ := s.Get("name").(string)
		c.JSON(http.StatusOK, gin.H{"name": name})
	})
	api.POST("/name", func(c *gin.Context) {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
			return
		}
		s := sessions.Default(c)
		s.Set("name", body.Name)
		if err := s.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session_save"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"name": body.Name})
	})

	ctl := listen.NewController(orch, cfg)
	api.GET("/ws", func(c *gin.Context) {
		ctl.HandleListen(ctx, c)
	})

	return r
}
