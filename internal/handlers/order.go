package handlers

import (
	"context"
	"crypto/rand"
	"log"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/apperr"
	"backend/internal/models"
	"backend/internal/pricing"
	"backend/internal/queue"
)

const orderNumberPrefix = "TAV"

// createOrderAttempts bounds the retry loop on an orderNumber collision.
const createOrderAttempts = 3

type CreateOrderItemRequest struct {
	ProductName string       `json:"productName" binding:"required"`
	Size        string       `json:"size" binding:"required"`
	Quantity    int          `json:"quantity" binding:"required"`
	Price       models.Money `json:"price"`
}

type CreateOrderRequest struct {
	AddressID        string                   `json:"addressId" binding:"required"`
	ShippingMethodID string                   `json:"shippingMethodId" binding:"required"`
	Items            []CreateOrderItemRequest `json:"items" binding:"required"`
}

// generateOrderNumber combines a base-36 millisecond timestamp with a random
// base-36 suffix. Collisions are unlikely but possible; CreateOrder retries
// on the unique-index conflict.
func generateOrderNumber() (string, error) {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		suffix[i] = alphabet[n.Int64()]
	}

	return orderNumberPrefix + "-" + timestamp + "-" + string(suffix), nil
}

// buildOrderItems validates the submitted snapshot. Prices are taken as
// given, the same denormalized snapshot the order stores.
func buildOrderItems(req []CreateOrderItemRequest) ([]models.OrderItem, error) {
	if len(req) == 0 {
		return nil, apperr.Validation("No items provided")
	}

	items := make([]models.OrderItem, 0, len(req))
	for _, item := range req {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be greater than zero")
		}
		if item.Price.IsNegative() {
			return nil, apperr.Validation("price must not be negative")
		}
		items = append(items, models.OrderItem{
			ProductName: strings.TrimSpace(item.ProductName),
			Size:        strings.TrimSpace(item.Size),
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return items, nil
}

func orderSubtotal(items []models.OrderItem) models.Money {
	subtotal := models.ZeroMoney
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.MulInt(item.Quantity))
	}
	return subtotal
}

func CreateOrder(db *mongo.Database, producer *queue.Producer, freeThreshold models.Money) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		items, err := buildOrderItems(req.Items)
		if err != nil {
			respondError(c, route, err)
			return
		}

		addressID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.AddressID))
		if err != nil {
			respondError(c, route, apperr.Validation("invalid addressId"))
			return
		}
		methodID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ShippingMethodID))
		if err != nil {
			respondError(c, route, apperr.Validation("invalid shippingMethodId"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var method models.ShippingMethod
		err = db.Collection("shipping_methods").FindOne(ctx, bson.M{"_id": methodID}).Decode(&method)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.NotFound("Invalid shipping method"))
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		address, err := loadOwnedAddress(ctx, db, addressID, userID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		subtotal := orderSubtotal(items)
		shippingCost := pricing.ComputeShipping(subtotal, method.Name, method.Price, freeThreshold)

		order := models.Order{
			UserID:           userID,
			AddressID:        addressID,
			ShippingMethodID: methodID,
			Items:            items,
			Subtotal:         subtotal,
			ShippingCost:     shippingCost,
			Total:            pricing.ComputeTotal(subtotal, shippingCost),
			Status:           "pending",
			CreatedAt:        time.Now(),
		}

		inserted := false
		for attempt := 0; attempt < createOrderAttempts; attempt++ {
			order.OrderNumber, err = generateOrderNumber()
			if err != nil {
				respondError(c, route, err)
				return
			}

			res, err := db.Collection("orders").InsertOne(ctx, order)
			if err == nil {
				order.ID, _ = res.InsertedID.(primitive.ObjectID)
				inserted = true
				break
			}
			if !mongo.IsDuplicateKeyError(err) {
				respondError(c, route, err)
				return
			}
			log.Println("[ORDER] [ERROR] order number collision, retrying:", order.OrderNumber)
		}
		if !inserted {
			respondError(c, route, apperr.New(apperr.KindInternal, "failed to create order"))
			return
		}

		order.ShippingMethod = &method
		order.Address = &address

		producer.PublishOrderCreated(order)

		log.Println("[ORDER] [INFO] order created:", order.OrderNumber, "for user:", userID.Hex())
		c.JSON(http.StatusCreated, order)
	}
}

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, route, err)
			return
		}

		for i := range orders {
			if err := expandOrder(ctx, db, &orders[i]); err != nil {
				respondError(c, route, err)
				return
			}
		}

		c.JSON(http.StatusOK, orders)
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:orderNumber"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderNumber := strings.TrimSpace(c.Param("orderNumber"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Existence first, ownership second: an unknown number is NotFound,
		// someone else's order is Forbidden.
		var order models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.NotFound("Order not found"))
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		if order.UserID != userID {
			respondError(c, route, apperr.Forbidden("Access denied"))
			return
		}

		if err := expandOrder(ctx, db, &order); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// expandOrder populates the shippingMethod and address relations for a
// response. Missing relations are tolerated, the order itself still renders.
func expandOrder(ctx context.Context, db *mongo.Database, order *models.Order) error {
	var method models.ShippingMethod
	err := db.Collection("shipping_methods").FindOne(ctx, bson.M{"_id": order.ShippingMethodID}).Decode(&method)
	if err == nil {
		order.ShippingMethod = &method
	} else if err != mongo.ErrNoDocuments {
		return err
	}

	var address models.Address
	err = db.Collection("addresses").FindOne(ctx, bson.M{"_id": order.AddressID}).Decode(&address)
	if err == nil {
		order.Address = &address
	} else if err != mongo.ErrNoDocuments {
		return err
	}

	return nil
}
