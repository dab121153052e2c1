package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"hanbridge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

var (
	UsersCollection     *mongo.Collection
	ProblemsCollection  *mongo.Collection
	ExchangesCollection *mongo.Collection
	FeedbackCollection  *mongo.Collection
)

// GetCollection returns a collection by name
func GetCollection(collectionName string) *mongo.Collection {
	return MongoDatabase.Collection(collectionName)
}

// extractDBName parses the database name from the URI, defaulting to "test"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "test"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "test"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	MongoDatabase = client.Database(dbName)
	UsersCollection = MongoDatabase.Collection("users")
	ProblemsCollection = MongoDatabase.Collection("problems")
	ExchangesCollection = MongoDatabase.Collection("exchanges")
	FeedbackCollection = MongoDatabase.Collection("feedback")
	return nil
}

// SaveExchange appends one completed exchange to the user's sequence.
func SaveExchange(ctx context.Context, exchange models.Exchange) error {
	_, err := ExchangesCollection.InsertOne(ctx, exchange)
	if err != nil {
		log.Printf("Error saving exchange: %v", err)
		return err
	}
	return nil
}

// ListExchanges returns a user's exchanges in completion order, which the
// session aggregation depends on.
func ListExchanges(ctx context.Context, email string) ([]models.Exchange, error) {
	opts := options.Find().SetSort(bson.M{"completedAt": 1})
	cursor, err := ExchangesCollection.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exchanges := []models.Exchange{}
	if err := cursor.All(ctx, &exchanges); err != nil {
		return nil, err
	}
	return exchanges, nil
}

// SaveFeedback stores one feedback request together with its recovered record.
func SaveFeedback(ctx context.Context, doc models.FeedbackDocument) error {
	_, err := FeedbackCollection.InsertOne(ctx, doc)
	if err != nil {
		log.Printf("Error saving feedback: %v", err)
		return err
	}
	return nil
}

// InsertProblems stores generated problems, ignoring duplicates by ID.
func InsertProblems(ctx context.Context, problems []models.Problem) error {
	if len(problems) == 0 {
		return nil
	}
	docs := make([]interface{}, len(problems))
	for i, p := range problems {
		docs[i] = p
	}
	_, err := ProblemsCollection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// ListProblems returns stored problems, optionally filtered by difficulty.
func ListProblems(ctx context.Context, difficulty models.Difficulty, limit int64) ([]models.Problem, error) {
	filter := bson.M{}
	if difficulty != "" {
		filter["difficulty"] = difficulty
	}
	opts := options.Find().SetLimit(limit)
	cursor, err := ProblemsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	problems := []models.Problem{}
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}
