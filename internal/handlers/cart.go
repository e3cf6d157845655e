package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pillpal/pillpal/internal/middleware/sessions"
	"github.com/pillpal/pillpal/internal/models"
	"github.com/pillpal/pillpal/internal/mykafka"
	"github.com/pillpal/pillpal/internal/session"
)

const shippingCost = 5.00

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type cartLine struct {
	MedicineID string  `json:"medicine_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   uint    `json:"quantity"`
	ItemTotal  float64 `json:"item_total"`
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicCartEvents, fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CartHandler) manager(c echo.Context) (*session.Manager, error) {
	mgr := sessions.FromContext(c)
	if mgr == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "no session")
	}
	return mgr, nil
}

// GetCart resolves the session's cart lines against the catalog. The cart
// stores only ids and quantities; prices and names are looked up here.
func (h *CartHandler) GetCart(c echo.Context) error {
	mgr, err := h.manager(c)
	if err != nil {
		return err
	}

	snap := mgr.Snapshot()
	lines := make([]cartLine, 0, len(snap.Cart))
	var subtotal float64
	for _, item := range snap.Cart {
		var med models.Medicine
		if err := h.DB.First(&med, "id = ?", item.MedicineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// stale reference, the catalog entry is gone
				continue
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		line := cartLine{
			MedicineID: med.ID,
			Name:       med.Name,
			Price:      med.Price,
			Quantity:   item.Quantity,
			ItemTotal:  med.Price * float64(item.Quantity),
		}
		subtotal += line.ItemTotal
		lines = append(lines, line)
	}

	shipping := 0.0
	if subtotal > 0 {
		shipping = shippingCost
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items":     lines,
		"subtotal":  subtotal,
		"shipping":  shipping,
		"total":     subtotal + shipping,
		"logged_in": snap.LoggedIn,
	})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	mgr, err := h.manager(c)
	if err != nil {
		return err
	}

	var req struct {
		MedicineID string `json:"medicine_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MedicineID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "medicine_id is required")
	}

	var med models.Medicine
	if err := h.DB.First(&med, "id = ?", req.MedicineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	mgr.AddToCart(c.Request().Context(), req.MedicineID)

	snap := mgr.Snapshot()
	h.publish(c, map[string]any{
		"type":       "cart_item_added",
		"userID":     cartOwner(snap),
		"medicineID": req.MedicineID,
	})

	return c.JSON(http.StatusOK, snap.Cart)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	mgr, err := h.manager(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	mgr.RemoveFromCart(c.Request().Context(), id)

	snap := mgr.Snapshot()
	h.publish(c, map[string]any{
		"type":       "cart_item_removed",
		"userID":     cartOwner(snap),
		"medicineID": id,
	})

	return c.JSON(http.StatusOK, snap.Cart)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	mgr, err := h.manager(c)
	if err != nil {
		return err
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id := c.Param("id")
	mgr.UpdateCartItemQuantity(c.Request().Context(), id, req.Quantity)

	snap := mgr.Snapshot()
	h.publish(c, map[string]any{
		"type":         "cart_quantity_updated",
		"userID":       cartOwner(snap),
		"medicineID":   id,
		"new_quantity": req.Quantity,
	})

	return c.JSON(http.StatusOK, snap.Cart)
}

// MakeOrder turns the session cart into an order: prices every line from
// the catalog, decrements stock and clears the cart, all in one
// transaction. A delivery address on the profile is required first.
func (h *CartHandler) MakeOrder(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}
	mgr, err := h.manager(c)
	if err != nil {
		return err
	}

	snap := mgr.Snapshot()
	if !snap.LoggedIn {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	if len(snap.Cart) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
	}

	var account models.User
	if err := h.DB.First(&account, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}
	if account.Address == "" {
		return echo.NewHTTPError(http.StatusBadRequest,
			"Please add a delivery address to your profile before proceeding to checkout.")
	}

	var (
		order      models.Order
		orderItems []models.OrderItem
	)

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var total float64
		for _, it := range snap.Cart {
			var med models.Medicine
			if err := tx.First(&med, "id = ?", it.MedicineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, "medicine not found")
				}
				return err
			}
			if med.Stock < it.Quantity {
				return echo.NewHTTPError(http.StatusConflict,
					fmt.Sprintf("insufficient stock for %s", med.Name))
			}
			if err := tx.Model(&models.Medicine{}).
				Where("id = ?", med.ID).
				Update("stock", gorm.Expr("stock - ?", it.Quantity)).Error; err != nil {
				return err
			}
			total += float64(it.Quantity) * med.Price
		}
		total += shippingCost

		order = models.Order{
			UserID:    userID,
			Total:     total,
			Status:    "new",
			CreatedAt: time.Now().Unix(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems = make([]models.OrderItem, 0, len(snap.Cart))
		for _, it := range snap.Cart {
			var med models.Medicine
			if err := tx.First(&med, "id = ?", it.MedicineID).Error; err != nil {
				return err
			}
			oi := models.OrderItem{
				OrderID:    order.ID,
				UserID:     userID,
				MedicineID: it.MedicineID,
				Quantity:   it.Quantity,
				Price:      med.Price,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			orderItems = append(orderItems, oi)
		}
		return nil
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	mgr.ClearCart(c.Request().Context())

	h.publish(c, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"items":   orderItems,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"order_id": order.ID,
		"total":    order.Total,
		"status":   order.Status,
		"items":    orderItems,
	})
}

func cartOwner(snap session.Snapshot) string {
	if snap.User != nil {
		return snap.User.Email
	}
	return "guest"
}
