package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted under the API prefix.
type Handlers struct {
	Menu        *MenuHandler
	Schedules   *ScheduleHandler
	Channels    *ChannelHandler
	Catalog     *CatalogHandler
	CatalogIO   *CatalogIOHandler
	PricingRule *PricingRuleHandler
	Events      *EventHandler
}

// RegisterRoutes mounts tenant-scoped routes on group. The group is expected
// to carry the tenant middleware.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	group.GET("/menu", h.Menu.Get)
	group.GET("/menu/snapshot", h.Menu.Snapshot)

	schedules := group.Group("/schedules")
	schedules.GET("", h.Schedules.List)
	schedules.POST("", h.Schedules.Create)
	schedules.GET("/:id", h.Schedules.Get)
	schedules.PUT("/:id", h.Schedules.Update)
	schedules.PATCH("/:id/active", h.Schedules.SetActive)
	schedules.DELETE("/:id", h.Schedules.Delete)

	channels := group.Group("/channels")
	channels.GET("", h.Channels.List)
	channels.POST("", h.Channels.Create)
	channels.GET("/:id", h.Channels.Get)
	channels.PUT("/:id", h.Channels.Update)
	channels.DELETE("/:id", h.Channels.Delete)
	channels.GET("/:id/status", h.Channels.Status)

	categories := group.Group("/categories")
	categories.GET("", h.Catalog.ListCategories)
	categories.POST("", h.Catalog.CreateCategory)
	categories.PUT("/:id", h.Catalog.UpdateCategory)
	categories.DELETE("/:id", h.Catalog.DeleteCategory)

	groups := group.Group("/modifier-groups")
	groups.GET("", h.Catalog.ListModifierGroups)
	groups.POST("", h.Catalog.CreateModifierGroup)
	groups.DELETE("/:id", h.Catalog.DeleteModifierGroup)

	items := group.Group("/items")
	items.GET("", h.Catalog.ListItems)
	items.POST("", h.Catalog.CreateItem)
	items.GET("/:id", h.Catalog.GetItem)
	items.PUT("/:id", h.Catalog.UpdateItem)
	items.DELETE("/:id", h.Catalog.DeleteItem)
	items.GET("/:id/pricing-rules", h.PricingRule.ListByItem)
	items.POST("/:id/pricing-rules", h.PricingRule.Create)
	items.POST("/:id/price-preview", h.Menu.PreviewPrice)

	rules := group.Group("/pricing-rules")
	rules.GET("/:id", h.PricingRule.Get)
	rules.PUT("/:id", h.PricingRule.Update)
	rules.PATCH("/:id/active", h.PricingRule.SetActive)
	rules.DELETE("/:id", h.PricingRule.Delete)

	group.GET("/catalog/export", h.CatalogIO.Export)
	group.POST("/catalog/import", h.CatalogIO.Import)

	group.POST("/events", h.Events.Ingest)
}
