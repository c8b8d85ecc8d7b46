package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tavolo-app/backend/controllers"
	"github.com/tavolo-app/backend/middlewares"
	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/realtime"
	"github.com/tavolo-app/backend/services"
)

// SetupRouter wires every endpoint. All collaborators are constructed here
// and injected; no package-level state.
func SetupRouter(db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddleware())
	// Registered before any route; a Use after route registration would
	// never run for them.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	tokenSvc := services.NewTokenService(db)
	sessionSvc := services.NewSessionService(db, tokenSvc)
	orderSvc := services.NewOrderService(db, sessionSvc, hub)
	workflowSvc := services.NewWorkflowService(db, tokenSvc, hub)
	callSvc := services.NewWaiterCallService(db, hub)

	qrCtrl := controllers.NewQRController(tokenSvc)
	customerCtrl := controllers.NewCustomerController(db, sessionSvc, orderSvc, callSvc)
	orderCtrl := controllers.NewOrderController(db, orderSvc, workflowSvc)
	kitchenCtrl := controllers.NewKitchenController(db, workflowSvc)
	tableCtrl := controllers.NewTableController(db, hub)
	menuCtrl := controllers.NewMenuController(db)
	userCtrl := controllers.NewUserController(db)
	callCtrl := controllers.NewWaiterCallController(callSvc)
	wsCtrl := controllers.NewWSController(hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      QR ISSUANCE (anonymous)
	// ----------------------------------------------------------------
	qr := r.Group("/qr")
	qr.Use(middlewares.QRCORSMiddleware())
	{
		qr.GET("/:restaurant_id/:table_id", qrCtrl.Scan)
	}

	// ----------------------------------------------------------------
	//                      CUSTOMER (table-token gated)
	// ----------------------------------------------------------------
	customer := r.Group("/customer/:restaurant_id/:table_id")
	{
		customer.GET("/menu", customerCtrl.GetMenu)
		customer.POST("/party-size", customerCtrl.SetPartySize)
		customer.POST("/orders", customerCtrl.PlaceOrder)
		customer.GET("/orders", customerCtrl.GetOrders)
		customer.POST("/call-waiter", customerCtrl.CallWaiter)
	}

	// ----------------------------------------------------------------
	//                      STAFF AUTH
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      STAFF API (JWT)
	// ----------------------------------------------------------------
	staff := r.Group("/staff")
	staff.Use(middlewares.AuthMiddleware())
	{
		staff.GET("/profile", userCtrl.GetProfile)
		staff.POST("/users", middlewares.RequireRole(models.RoleAdmin), userCtrl.Register)

		// Floor service
		floor := staff.Group("/")
		floor.Use(middlewares.RequireRole(models.RoleStaff))
		{
			floor.GET("/orders", orderCtrl.GetAllOrders)
			floor.GET("/orders/:order_id", orderCtrl.GetOrderByID)
			floor.PATCH("/orders/:order_id", orderCtrl.EditOrder)
			floor.POST("/orders/:order_id/status", orderCtrl.UpdateStatus)
			floor.POST("/orders/:order_id/pay", orderCtrl.PayOrder)
			floor.POST("/tables/:table_id/close", orderCtrl.CloseTable)

			floor.GET("/waiter-calls", callCtrl.GetActiveCalls)
			floor.POST("/waiter-calls/:call_id/resolve", callCtrl.ResolveCall)

			floor.GET("/tables", tableCtrl.GetAllTables)
			floor.POST("/tables", tableCtrl.CreateTable)
			floor.PATCH("/tables/:table_id", tableCtrl.UpdateTable)

			floor.GET("/categories", menuCtrl.GetAllCategories)
			floor.POST("/categories", menuCtrl.CreateCategory)
			floor.GET("/products", menuCtrl.GetAllProducts)
			floor.POST("/products", menuCtrl.CreateProduct)
			floor.PATCH("/products/:product_id", menuCtrl.UpdateProduct)
			floor.DELETE("/products/:product_id", menuCtrl.DeleteProduct)
		}

		// Kitchen display: only the two transitions the kitchen owns are
		// routed here; the workflow role gate backs this up.
		kitchen := staff.Group("/kitchen")
		kitchen.Use(middlewares.RequireRole(models.RoleChef, models.RoleStaff))
		{
			kitchen.GET("/display", kitchenCtrl.GetDisplay)
			kitchen.POST("/orders/:order_id/start", kitchenCtrl.StartPreparation)
			kitchen.POST("/orders/:order_id/ready", kitchenCtrl.MarkReady)
		}

		staff.GET("/ws", wsCtrl.Attach)
	}

	return r
}
