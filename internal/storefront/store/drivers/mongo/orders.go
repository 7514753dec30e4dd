package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/marketloft/storefront/internal/storefront/domain"
	"github.com/marketloft/storefront/internal/storefront/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ordersRepo struct {
	c *mongo.Collection
}

type orderItemDoc struct {
	ProductID string `bson:"product_id"`
	Name      string `bson:"name"`
	Price     int64  `bson:"price"`
	Quantity  int    `bson:"quantity"`
}

type orderDoc struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"user_id"`
	Items     []orderItemDoc `bson:"items"`
	Total     int64          `bson:"total"`
	Status    string         `bson:"status"`
	Address   string         `bson:"address"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

func toOrderDoc(o domain.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc(it))
	}
	return orderDoc{
		ID:        o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total,
		Status:    o.Status,
		Address:   o.Address,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (d orderDoc) toDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem(it))
	}
	return domain.Order{
		ID:        d.ID,
		UserID:    d.UserID,
		Items:     items,
		Total:     d.Total,
		Status:    d.Status,
		Address:   d.Address,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *ordersRepo) GetOrderByID(ctx context.Context, id string) (domain.Order, error) {
	var doc orderDoc
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Order{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return doc.toDomain(), nil
}

func (r *ordersRepo) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *ordersRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *ordersRepo) list(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	cur, err := r.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toDomain())
	}
	return orders, nil
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) error {
	_, err := r.c.InsertOne(ctx, toOrderDoc(o))
	return err
}

func (r *ordersRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
