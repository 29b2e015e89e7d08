package router

import (
	"time"

	"assistec/internal/config"
	"assistec/internal/handler"
	"assistec/internal/middleware"
	"assistec/internal/repository"
	"assistec/internal/service"
	"assistec/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	empresaRepo := repository.NewEmpresaRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	ordemRepo := repository.NewOrdemRepository(db)
	notificacaoRepo := repository.NewNotificacaoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	produtoSvc := service.NewProdutoService(produtoRepo, rdb)
	caixaSvc := service.NewCaixaService(caixaRepo)
	vendaSvc := service.NewVendaService(vendaRepo, caixaSvc, caixaRepo, produtoRepo)
	ordemSvc := service.NewOrdemService(ordemRepo, clienteRepo, usuarioRepo, notificacaoRepo, dispatcher)
	dashboardSvc := service.NewDashboardService(ordemRepo, vendaRepo, caixaRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)
	ordensH := handler.NewOrdensHandler(ordemSvc, ordemRepo, empresaRepo, cfg)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		// Roles: atendente, tecnico, administrador — declared per-endpoint
		caixa := v1.Group("/caixa", middleware.RequireRole("atendente", "administrador"))
		{
			caixa.POST("/abrir", caixaH.Abrir)
			caixa.POST("/fechar", caixaH.Fechar)
			caixa.POST("/movimentacao", caixaH.RegistrarMovimentacao)
			caixa.GET("/ativo", caixaH.TurnoAtivo)
			caixa.GET("/troco-sugerido", caixaH.TrocoSugerido)
			caixa.GET("/:id/saldo", caixaH.Saldo)
			caixa.GET("/:id/movimentacoes", caixaH.Movimentacoes)
			caixa.GET("/historico", caixaH.Historico)
		}

		v1.POST("/vendas", middleware.RequireRole("atendente", "administrador"), vendasH.Finalizar)
		v1.GET("/vendas", middleware.RequireRole("atendente", "administrador"), vendasH.Listar)
		v1.GET("/vendas/:id", middleware.RequireRole("atendente", "administrador"), vendasH.Buscar)
		v1.POST("/vendas/:id/anular", middleware.RequireRole("administrador"), vendasH.Anular)

		ordens := v1.Group("/ordens", middleware.RequireRole("atendente", "tecnico", "administrador"))
		{
			ordens.POST("", ordensH.Criar)
			ordens.GET("", ordensH.Listar)
			ordens.GET("/:id", ordensH.Buscar)
			ordens.PUT("/:id", ordensH.Atualizar)
			ordens.PUT("/:id/status", ordensH.MudarStatus)
			ordens.GET("/:id/historico", ordensH.Historico)
			ordens.GET("/:id/pdf", ordensH.Imprimir)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole("atendente", "administrador"))
		{
			clientes.POST("", clientesH.Criar)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Buscar)
			clientes.PUT("/:id", clientesH.Atualizar)
			clientes.DELETE("/:id", clientesH.Desativar)
		}

		// Catalog — all roles can read, administrador writes
		v1.GET("/produtos", middleware.RequireRole("atendente", "tecnico", "administrador"), produtosH.Listar)
		v1.GET("/produtos/:id", middleware.RequireRole("atendente", "tecnico", "administrador"), produtosH.Buscar)
		produtos := v1.Group("/produtos", middleware.RequireRole("administrador"))
		{
			produtos.POST("", produtosH.Criar)
			produtos.PUT("/:id", produtosH.Atualizar)
			produtos.DELETE("/:id", produtosH.Desativar)
		}

		v1.GET("/dashboard", middleware.RequireRole("atendente", "tecnico", "administrador"), dashboardH.Resumo)

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CriarUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.AtualizarUsuario)
			usuarios.DELETE("/:id", authH.DesativarUsuario)
			usuarios.PATCH("/:id/reativar", authH.ReativarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
