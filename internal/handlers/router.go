package handlers

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/diet-storefront/internal/middleware"
)

// Set holds every page controller of the local API
type Set struct {
	Health      *HealthHandler
	Catalog     *CatalogHandler
	Constructor *ConstructorHandler
	Standard    *StandardHandler
	Calculator  *CalculatorHandler
	Cart        *CartHandler
	Checkout    *CheckoutHandler
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Favorites   *FavoritesHandler
}

// Register mounts the routes on r. Profile routes require a session.
func (s *Set) Register(r chi.Router, identity middleware.Identity, logger *slog.Logger) {
	r.Get("/health", s.Health.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints
		r.Get("/dishes", s.Catalog.ListDishes)
		r.Get("/dishes/{dishId}", s.Catalog.GetDish)
		r.Get("/menu/{tier}/{day}", s.Catalog.DayMenu)
		r.Get("/catalog/stats", s.Catalog.Stats)
		r.Delete("/catalog/cache", s.Catalog.InvalidateCache)

		r.Route("/constructor", func(r chi.Router) {
			r.Get("/", s.Constructor.View)
			r.Delete("/", s.Constructor.Reset)
			r.Post("/confirm", s.Constructor.Confirm)
			r.Put("/{day}/{dishId}", s.Constructor.Set)
			r.Post("/{day}/{dishId}/toggle", s.Constructor.Toggle)
		})

		r.Route("/standard", func(r chi.Router) {
			r.Get("/{tier}/{day}", s.Standard.Day)
			r.Put("/{day}/slots/{slot}", s.Standard.Choose)
			r.Put("/{day}/dishes/{dishId}", s.Standard.SetIncluded)
			r.Post("/{tier}/confirm", s.Standard.Confirm)
		})

		r.Route("/calculator", func(r chi.Router) {
			r.Get("/", s.Calculator.Result)
			r.Post("/", s.Calculator.Calculate)
			r.Get("/menu/{day}", s.Calculator.Menu)
			r.Put("/{day}/dishes/{dishId}", s.Calculator.SetIncluded)
			r.Post("/confirm", s.Calculator.Confirm)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.Cart.Get)
			r.Delete("/", s.Cart.Clear)
			r.Post("/pull", s.Cart.Pull)
			r.Post("/items", s.Cart.AddItem)
			r.Delete("/orders/{orderId}", s.Cart.RemoveOrder)
			r.Put("/orders/{orderId}/lines/{dishId}/{day}", s.Cart.UpdateLine)
			r.Delete("/orders/{orderId}/lines/{dishId}/{day}", s.Cart.RemoveLine)
		})

		r.Get("/checkout/form", s.Checkout.Form)
		r.Post("/checkout", s.Checkout.Submit)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.Auth.Register)
			r.Post("/login", s.Auth.Login)
			r.Post("/logout", s.Auth.Logout)
			r.Get("/status", s.Auth.Status)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(identity, logger))
			r.Get("/profile", s.Profile.Get)
			r.Put("/profile", s.Profile.Update)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", s.Favorites.List)
			r.Delete("/", s.Favorites.Clear)
			r.Put("/{dishId}", s.Favorites.Add)
			r.Delete("/{dishId}", s.Favorites.Remove)
		})
	})
}
