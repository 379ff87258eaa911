package main

import (
	"log"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/blob"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/middleware"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.StockMovement{},
	); err != nil {
		log.Fatal(err)
	}
	//カテゴリ名の一意性は大文字小文字を区別しない
	if err := gormDB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_lower ON categories (LOWER(name))",
	).Error; err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	movementRepo := infraRepo.NewStockMovementGormRepository(gormDB)
	dashboardRepo := infraRepo.NewDashboardGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//商品画像の保存先
	imageStore, err := blob.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, validator.NewAuthValidator())
	userUC := usecase.NewUserUsecase(userRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	productUC := usecase.NewProductUsecase(productRepo)
	stockUC := usecase.NewStockUsecase(txManager, productRepo, movementRepo)
	dashboardUC := usecase.NewDashboardUsecase(dashboardRepo, movementRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:      handler.NewAuthHandler(authUC),
		User:      handler.NewUserHandler(userUC),
		Category:  handler.NewCategoryHandler(categoryUC),
		Product:   handler.NewProductHandler(productUC, stockUC, imageStore),
		Dashboard: handler.NewDashboardHandler(dashboardUC),
	}

	//Server起動
	e := server.New(cfg, middleware.AuthJWT(cfg, userRepo), handlers)
	if err := e.Start(":" + cfg.Port); err != nil {
		e.Logger.Fatal(err)
	}
}
