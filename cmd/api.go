package cmd

import (
	"context"
	"os/signal"
	"syscall"

	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Laisky/blog-publisher/internal/web"
	"github.com/Laisky/blog-publisher/internal/web/blog/controller"
	"github.com/Laisky/blog-publisher/internal/web/blog/dao"
	"github.com/Laisky/blog-publisher/internal/web/blog/model"
	"github.com/Laisky/blog-publisher/internal/web/blog/service"
	"github.com/Laisky/blog-publisher/library/log"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `serve the blog pages over http`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := runAPI(ctx); err != nil {
			log.Logger.Panic("run api", zap.Error(err))
		}
	},
}

func runAPI(ctx context.Context) error {
	if !gconfig.Shared.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	model.Initialize(ctx)
	defer func() {
		if err := model.BlogDB.Close(context.Background()); err != nil {
			log.Logger.Error("close db", zap.Error(err))
		}
	}()

	blogDao := dao.New(log.Logger.Named("blog_dao"), model.BlogDB,
		gconfig.Shared.GetString("settings.db.blog.collection"))
	blogSvc := service.New(log.Logger.Named("blog_svc"), blogDao, service.LoadSettingsFromConfig())

	engine, err := web.NewEngine(controller.New(blogSvc), blogSvc, web.Options{
		CORSAllowedDomains: gconfig.Shared.GetStringSlice("settings.web.cors.allowed_domains"),
		EnableMetric:       gconfig.Shared.GetBool("settings.web.metric"),
	})
	if err != nil {
		return err
	}

	return web.RunServer(ctx, gconfig.Shared.GetString("listen"), engine)
}

func init() {
	rootCMD.AddCommand(apiCMD)
}
