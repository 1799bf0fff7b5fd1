// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"movie-rec-go/internal/config"
	"movie-rec-go/internal/extractor"
	"movie-rec-go/internal/handler"
	"movie-rec-go/internal/middleware"
	"movie-rec-go/internal/model"
	"movie-rec-go/internal/pipeline"
	"movie-rec-go/internal/recommender"
	"movie-rec-go/internal/repository"
	"movie-rec-go/internal/service"
	"movie-rec-go/pkg/database"
	"movie-rec-go/pkg/embedding"
	"movie-rec-go/pkg/es"
	"movie-rec-go/pkg/kafka"
	"movie-rec-go/pkg/llm"
	"movie-rec-go/pkg/log"
	"movie-rec-go/pkg/storage"
	"movie-rec-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库与基础设施
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	if err := database.DB.AutoMigrate(
		&model.User{}, &model.Movie{}, &model.Rating{},
		&model.GenreAlias{}, &model.DatasetImport{},
	); err != nil {
		log.Fatal("数据库迁移失败", err)
	}

	// 4. 初始化 Repository
	userRepo := repository.NewUserRepository(database.DB)
	movieRepo := repository.NewMovieRepository(database.DB)
	ratingRepo := repository.NewRatingRepository(database.DB)
	aliasRepo := repository.NewGenreAliasRepository(database.DB)
	importRepo := repository.NewDatasetImportRepository(database.DB)
	historyRepo := repository.NewQueryHistoryRepository(database.RDB)

	// 5. 初始化特征提取器：
	//    embedding.provider=rule 时走离线确定性路径，llm.enabled=false 时只用规则特征
	var featureExtractor recommender.TextFeatureExtractor
	if cfg.Embedding.Provider == "rule" || !cfg.LLM.Enabled {
		featureExtractor = recommender.NewRuleExtractor(cfg.Embedding.Dimensions)
		log.Info("特征提取器: 规则模式")
	} else {
		featureExtractor = extractor.NewLLMExtractor(
			llm.NewClient(cfg.LLM),
			embedding.NewClient(cfg.Embedding),
			cfg.Embedding.Dimensions,
		)
		log.Info("特征提取器: LLM + 远程向量模式")
	}

	// 6. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	interpreter := recommender.NewQueryInterpreter(featureExtractor, cfg.Recommender.DefaultGenres)
	userService := service.NewUserService(userRepo, ratingRepo, jwtManager)
	catalogService := service.NewCatalogService(movieRepo, aliasRepo, featureExtractor)
	recommendService := service.NewRecommendService(interpreter, catalogService, ratingRepo, historyRepo, database.RDB, cfg.Recommender)
	searchService := service.NewSearchService(es.ESClient, cfg.Elasticsearch.IndexName)
	historyService := service.NewHistoryService(historyRepo)
	datasetService := service.NewDatasetService(importRepo, cfg.MinIO)
	adminService := service.NewAdminService(aliasRepo, userRepo)

	// 7. 启动增强流水线的 Kafka 消费者
	enhancer := pipeline.NewEnhancer(movieRepo, importRepo, featureExtractor, catalogService, cfg.MinIO, cfg.Elasticsearch)
	go kafka.StartConsumer(cfg.Kafka, enhancer)

	// 7.1 启动时构建片库索引；片库为空时服务仍启动，推荐接口返回 503
	if err := catalogService.Rebuild(context.Background()); err != nil {
		log.Warnf("启动时构建片库索引失败（片库可能为空）: %v", err)
	}

	// 7.2 初始化导入 data 目录下的种子数据集（幂等：已有同名导入记录则跳过）
	go initSeedDatasets("data", importRepo, datasetService)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. 注册路由
	recommendHandler := handler.NewRecommendHandler(recommendService, jwtManager)
	userHandler := handler.NewUserHandler(userService)
	historyHandler := handler.NewHistoryHandler(historyService)
	adminHandler := handler.NewAdminHandler(adminService, datasetService, catalogService)
	wsHandler := handler.NewWsHandler(recommendService, jwtManager)

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/refreshToken", handler.NewAuthHandler(userService).RefreshToken)
		}

		users := apiV1.Group("/users")
		{
			// 无需认证的路由 (公开访问)
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)

			// 需要认证的路由 (仅限登录用户访问)
			authed := users.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager, userService))
			{
				authed.GET("/me", userHandler.Me)
				authed.POST("/logout", userHandler.Logout)
				authed.POST("/ratings", userHandler.Rate)
				authed.GET("/ratings", userHandler.Ratings)
				authed.GET("/history", historyHandler.List)
				authed.DELETE("/history", historyHandler.Clear)
				authed.GET("/:id/recommendations", recommendHandler.RecommendByUser)
			}
		}

		// 推荐路由组，需要认证
		recommendations := apiV1.Group("/recommendations")
		recommendations.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			recommendations.GET("", recommendHandler.Recommend)
		}

		recommend := apiV1.Group("/recommend")
		recommend.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			recommend.GET("/websocket-token", recommendHandler.WebsocketToken)
		}

		// Search 路由组
		search := apiV1.Group("/search")
		search.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			search.GET("/movies", handler.NewSearchHandler(searchService).SearchMovies)
		}

		admin := apiV1.Group("/admin")
		// 管理员路由组，需要同时通过认证和管理员授权两个中间件
		admin.Use(middleware.AuthMiddleware(jwtManager, userService), middleware.AdminAuthMiddleware())
		{
			admin.POST("/datasets", adminHandler.UploadDataset)
			admin.GET("/datasets", adminHandler.ListDatasets)
			admin.DELETE("/datasets/:id", adminHandler.DeleteDataset)
			admin.POST("/catalog/rebuild", adminHandler.RebuildCatalog)
			admin.POST("/evaluate", adminHandler.Evaluate)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/role", adminHandler.SetUserRole)

			aliases := admin.Group("/genre-aliases")
			{
				aliases.POST("", adminHandler.CreateGenreAlias)
				aliases.GET("", adminHandler.ListGenreAliases)
				aliases.PUT("/:alias", adminHandler.UpdateGenreAlias)
				aliases.DELETE("/:alias", adminHandler.DeleteGenreAlias)
			}
		}
	}

	// WebSocket 推荐会话（token 在路径中校验）
	r.GET("/ws/recommend/:token", wsHandler.Recommend)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

// initSeedDatasets 扫描目录下的 CSV 数据集并通过标准上传流程导入（幂等）。
func initSeedDatasets(dir string, importRepo repository.DatasetImportRepository, datasetSvc service.DatasetService) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Infof("initSeedDatasets: 目录 '%s' 不存在或不可用，跳过种子导入", dir)
		return
	}

	existing, err := importRepo.FindAll()
	if err != nil {
		log.Warnf("initSeedDatasets: 查询已有导入记录失败: %v", err)
		return
	}
	imported := make(map[string]bool, len(existing))
	for _, rec := range existing {
		imported[rec.FileName] = true
	}

	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(info.Name()), ".csv") {
			return nil
		}
		if imported[info.Name()] {
			log.Infof("initSeedDatasets: 已导入，跳过: %s", info.Name())
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			log.Warnf("initSeedDatasets: 打开文件失败: %s, err=%v", path, err)
			return nil
		}
		defer f.Close()

		// 种子数据集归属系统用户（userID=0 保留给系统）
		record, err := datasetSvc.Upload(context.Background(), f, info.Size(), info.Name(), 0)
		if err != nil {
			log.Warnf("initSeedDatasets: 导入失败: %s, err=%v", path, err)
			return nil
		}
		log.Infof("initSeedDatasets: 导入完成并已投递增强任务: %s, importID=%d", info.Name(), record.ID)
		return nil
	})
	if walkErr != nil {
		log.Warnf("initSeedDatasets: 遍历目录发生错误: %v", walkErr)
	}
}
