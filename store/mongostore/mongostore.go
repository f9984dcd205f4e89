// Package mongostore implements store.Store on MongoDB. Documents use the
// hex form of a fresh ObjectID as their _id so identifiers stay opaque
// strings across backends.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	colCategories = "categories"
	colProducts   = "products"
	colUsers      = "users"
	colOrderItems = "orderitems"
	colOrders     = "orders"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// Open connects, pings the primary and ensures indexes. A failure here means
// the database is unreachable; callers decide whether that is fatal.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		colUsers: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		colProducts: {Keys: bson.D{{Key: "category", Value: 1}}},
		colOrders:   {Keys: bson.D{{Key: "user", Value: 1}}},
	}
	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("mongostore: index on %s: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return store.ErrInvalidID
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrConflict
	default:
		return err
	}
}

func byID(id string) bson.M {
	return bson.M{"_id": id}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var out T
	if err := coll.FindOne(ctx, byID(id)).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func deleteOne[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var out T
	if err := coll.FindOneAndDelete(ctx, byID(id)).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func replaceOne(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := coll.ReplaceOne(ctx, byID(id), doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc any) error {
	_, err := coll.InsertOne(ctx, doc)
	return translate(err)
}

// ---------------- Categories ----------------

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	return findAll[models.Category](ctx, s.col(colCategories), bson.D{})
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return findOne[models.Category](ctx, s.col(colCategories), id)
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	c.ID = newID()
	return insertOne(ctx, s.col(colCategories), c)
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	return replaceOne(ctx, s.col(colCategories), c.ID, c)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (*models.Category, error) {
	return deleteOne[models.Category](ctx, s.col(colCategories), id)
}

// ---------------- Products ----------------

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	filter := bson.M{}
	if len(f.CategoryIDs) > 0 {
		filter["category"] = bson.M{"$in": f.CategoryIDs}
	}
	if f.FeaturedOnly {
		filter["isFeatured"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "dateCreated", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	return findAll[models.Product](ctx, s.col(colProducts), filter, opts)
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return findOne[models.Product](ctx, s.col(colProducts), id)
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	p.ID = newID()
	return insertOne(ctx, s.col(colProducts), p)
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	return replaceOne(ctx, s.col(colProducts), p.ID, p)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	return deleteOne[models.Product](ctx, s.col(colProducts), id)
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	return s.col(colProducts).CountDocuments(ctx, bson.D{})
}

// ---------------- Users ----------------

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.col(colUsers), bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.col(colUsers), id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.col(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = newID()
	return insertOne(ctx, s.col(colUsers), u)
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	return replaceOne(ctx, s.col(colUsers), u.ID, u)
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	return deleteOne[models.User](ctx, s.col(colUsers), id)
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.col(colUsers).CountDocuments(ctx, bson.D{})
}

// ---------------- Order items ----------------

func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	item.ID = newID()
	return insertOne(ctx, s.col(colOrderItems), item)
}

func (s *Store) GetOrderItem(ctx context.Context, id string) (*models.OrderItem, error) {
	return findOne[models.OrderItem](ctx, s.col(colOrderItems), id)
}

func (s *Store) DeleteOrderItem(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := s.col(colOrderItems).DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------------- Orders ----------------

func (s *Store) ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user"] = f.UserID
	}
	opts := options.Find().SetSort(bson.D{{Key: "dateOrdered", Value: -1}})
	return findAll[models.Order](ctx, s.col(colOrders), filter, opts)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return findOne[models.Order](ctx, s.col(colOrders), id)
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	o.ID = newID()
	return insertOne(ctx, s.col(colOrders), o)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var o models.Order
	err := s.col(colOrders).FindOneAndUpdate(ctx,
		byID(id),
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	return deleteOne[models.Order](ctx, s.col(colOrders), id)
}

func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	return s.col(colOrders).CountDocuments(ctx, bson.D{})
}

func (s *Store) TotalSales(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
		}}},
	}
	cur, err := s.col(colOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		TotalSales float64 `bson:"totalSales"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalSales, nil
}

// Drop removes the whole database. Integration tests use it for isolation.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}
