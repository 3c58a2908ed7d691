package dao

import (
	"context"
	"errors"
	"time"

	"github.com/companieshouse/chs.go/log"
	"github.com/kodlan/sait-paypal/config"
	"github.com/kodlan/sait-paypal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var client *mongo.Client

func getMongoClient(mongoDBURL string) *mongo.Client {
	if client != nil {
		return client
	}

	ctx := context.Background()

	clientOptions := options.Client().ApplyURI(mongoDBURL)

	var err error
	client, err = mongo.Connect(ctx, clientOptions)

	// Assume the caller of this func cannot handle the case where there is no database connection so the prog must
	// crash here as the service cannot continue.
	if err != nil {
		log.Error(err)
		panic(err)
	}

	// Check we can connect to the mongodb instance. Failure here should result in a crash.
	pingContext, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = client.Ping(pingContext, nil)
	if err != nil {
		log.Error(errors.New("ping to mongodb timed out. please check the connection to mongodb and that it is running"))
		panic(err)
	}

	log.Info("connected to mongodb successfully")

	return client
}

// MongoDatabaseInterface is an interface that describes the mongodb driver
type MongoDatabaseInterface interface {
	Collection(name string, opts ...*options.CollectionOptions) *mongo.Collection
}

func getMongoDatabase(mongoDBURL, databaseName string) MongoDatabaseInterface {
	return getMongoClient(mongoDBURL).Database(databaseName)
}

// MongoService is an implementation of the DAO interface using MongoDB as the backend driver.
type MongoService struct {
	db             MongoDatabaseInterface
	CollectionName string
}

// NewMongoService connects to the configured database
func NewMongoService(cfg *config.Config) *MongoService {
	return &MongoService{
		db:             getMongoDatabase(cfg.MongoDBURL, cfg.Database),
		CollectionName: cfg.Collection,
	}
}

// EnsureIndexes makes paypal_order_id unique, the document equivalent of the
// relational unique column
func (m *MongoService) EnsureIndexes(ctx context.Context) error {
	collection := m.db.Collection(m.CollectionName)

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "paypal_order_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CreatePaymentResource writes a new payment resource to the DB
func (m *MongoService) CreatePaymentResource(ctx context.Context, paymentResource *models.PaymentResourceDB) error {
	collection := m.db.Collection(m.CollectionName)

	_, err := collection.InsertOne(ctx, paymentResource)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicatePayment
	}
	return err
}

// GetPaymentResource gets a payment resource from the DB
// If payment not found in DB, return nil
func (m *MongoService) GetPaymentResource(ctx context.Context, paypalOrderID string) (*models.PaymentResourceDB, error) {
	var resource models.PaymentResourceDB
	collection := m.db.Collection(m.CollectionName)

	dbResource := collection.FindOne(ctx, bson.M{"paypal_order_id": paypalOrderID})

	err := dbResource.Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Info("no payment resource found for paypal order", log.Data{"paypal_order_id": paypalOrderID})
			return nil, nil
		}
		log.Error(err)
		return nil, err
	}

	err = dbResource.Decode(&resource)
	if err != nil {
		log.Error(err)
		return nil, err
	}

	return &resource, nil
}

// PatchPaymentResource patches a payment resource from the DB
func (m *MongoService) PatchPaymentResource(ctx context.Context, paypalOrderID string, paymentUpdate *models.PaymentResourceDB) error {
	collection := m.db.Collection(m.CollectionName)

	patchUpdate := make(bson.M)

	// Patch only these fields
	if paymentUpdate.Status != "" {
		patchUpdate["status"] = paymentUpdate.Status
	}
	if paymentUpdate.CapturedAt != nil {
		patchUpdate["captured_at"] = paymentUpdate.CapturedAt
	}

	if len(patchUpdate) == 0 {
		return errors.New("no valid fields for the patch request have been supplied")
	}

	updateCall := bson.M{"$set": patchUpdate}

	res, err := collection.UpdateOne(ctx, bson.M{"paypal_order_id": paypalOrderID}, updateCall)
	if err != nil {
		log.Error(err)
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// Close disconnects the shared client
func (m *MongoService) Close(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
