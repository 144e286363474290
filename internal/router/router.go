package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/handler"
	"github.com/AizaAsim/CampusConnect/internal/middleware"
	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/notification"
	"github.com/AizaAsim/CampusConnect/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps 路由需要的全部服务，由 main 组装
type Deps struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Clubs         *service.ClubService
	ClubMembers   *service.ClubMemberService
	Events        *service.EventService
	Attendees     *service.EventAttendeeService
	Posts         *service.PostService
	Comments      *service.CommentService
	Statistics    *service.StatisticsService
	Hub           *notification.Hub
	Log           *zap.Logger
	CORSOrigins   []string
	AuthRateLimit *middleware.IPRateLimiter
}

func InitRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log), cors.New(corsConfig(d.CORSOrigins)))

	auth := handler.NewAuthHandler(d.Auth, log)
	user := handler.NewUserHandler(d.Users, log)
	club := handler.NewClubHandler(d.Clubs, log)
	member := handler.NewClubMemberHandler(d.ClubMembers, log)
	event := handler.NewEventHandler(d.Events, log)
	attendee := handler.NewEventAttendeeHandler(d.Attendees, log)
	post := handler.NewPostHandler(d.Posts, log)
	comment := handler.NewCommentHandler(d.Comments, log)
	stats := handler.NewStatisticsHandler(d.Statistics, log)
	ws := handler.NewWSHandler(d.Hub, d.Auth, d.CORSOrigins, log)

	requireAuth := middleware.Auth(d.Auth)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"wsConnections": d.Hub.ConnectionCount(),
			"wsChannels":    d.Hub.ChannelCount(),
			"onlineUsers":   d.Hub.UserCount(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", ws.Serve)

	// 登录注册，按 IP 限流
	authGroup := r.Group("/auth")
	{
		limited := authGroup.Group("")
		if d.AuthRateLimit != nil {
			limited.Use(middleware.RateLimit(d.AuthRateLimit))
		}
		limited.POST("/register", auth.Register)
		limited.POST("/login", auth.Login)
		authGroup.GET("/profile", requireAuth, auth.Profile)
	}

	userGroup := r.Group("/users")
	{
		userGroup.GET("", requireAuth, adminOnly, user.List)
		userGroup.GET("/:id", user.Get)
		userGroup.DELETE("/:id", requireAuth, adminOnly, user.Delete)
	}

	// 社团，只有 CLUB_ADMIN 和 ADMIN 能创建
	clubGroup := r.Group("/clubs")
	{
		clubGroup.POST("", requireAuth, middleware.RequireRoles(model.RoleClubAdmin, model.RoleAdmin), club.Create)
		clubGroup.GET("", club.List)
		clubGroup.GET("/user/:userId", club.ListByUser)
		clubGroup.GET("/:id", club.Get)
		clubGroup.PATCH("/:id", requireAuth, club.Update)
		clubGroup.DELETE("/:id", requireAuth, club.Delete)
	}

	memberGroup := r.Group("/club-members")
	{
		memberGroup.POST("", requireAuth, member.Create)
		memberGroup.GET("/club/:clubId", member.ListByClub)
		memberGroup.GET("/user/:userId", member.ListByUser)
		memberGroup.PATCH("/club/:clubId/user/:userId", requireAuth, member.Update)
		memberGroup.DELETE("/club/:clubId/user/:userId", requireAuth, member.Delete)
	}

	eventGroup := r.Group("/events")
	{
		eventGroup.POST("", requireAuth, event.Create)
		eventGroup.GET("", event.List)
		eventGroup.GET("/future", event.ListFuture)
		eventGroup.GET("/club/:clubId", event.ListByClub)
		eventGroup.GET("/:id", event.Get)
		eventGroup.PATCH("/:id", requireAuth, event.Update)
		eventGroup.DELETE("/:id", requireAuth, event.Delete)
	}

	attendeeGroup := r.Group("/event-attendees")
	{
		attendeeGroup.POST("", requireAuth, attendee.Create)
		attendeeGroup.GET("/event/:eventId", attendee.ListByEvent)
		attendeeGroup.GET("/user/:userId", attendee.ListByUser)
		attendeeGroup.PATCH("/event/:eventId/user/:userId", requireAuth, attendee.Update)
		attendeeGroup.DELETE("/event/:eventId/user/:userId", requireAuth, attendee.Delete)
	}

	postGroup := r.Group("/posts")
	{
		postGroup.POST("", requireAuth, post.Create)
		postGroup.GET("", post.List)
		postGroup.GET("/user/:userId", post.ListByUser)
		postGroup.GET("/:id", post.Get)
		postGroup.PATCH("/:id", requireAuth, post.Update)
		postGroup.DELETE("/:id", requireAuth, post.Delete)
	}

	commentGroup := r.Group("/comments")
	{
		commentGroup.POST("", requireAuth, comment.Create)
		commentGroup.GET("/post/:postId", comment.ListByPost)
		commentGroup.DELETE("/:id", requireAuth, comment.Delete)
	}

	statsGroup := r.Group("/statistics")
	{
		statsGroup.GET("/overview", stats.Overview)
		statsGroup.GET("/user/:userId", requireAuth, stats.User)
		statsGroup.GET("/admin/dashboard", requireAuth, adminOnly, stats.AdminDashboard)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
