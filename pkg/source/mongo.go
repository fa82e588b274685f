package source

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

const connectTimeout = 10 * time.Second

// Mongo loads topics from a MongoDB collection.
//
// Documents are decoded with the bson tags of [topic.Topic]:
//
//	{"id": "1", "label": "Berlin", "volume": 165, "sentimentScore": 65,
//	 "sentiment": {"positive": 29, "neutral": 133, "negative": 3}}
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	name       string
	limit      int
}

// NewMongo connects to cfg.URI and checks the connection with a ping.
func NewMongo(ctx context.Context, cfg Config) (*Mongo, error) {
	cfg.SetDefaults()
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	return &Mongo{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		name:       KindMongo + ":" + cfg.Database + "/" + cfg.Collection,
		limit:      cfg.Limit,
	}, nil
}

// Load implements Source. Topics are sorted by volume descending, then label.
func (m *Mongo) Load(ctx context.Context) ([]topic.Topic, error) {
	opts := options.Find().SetSort(bson.D{{Key: "volume", Value: -1}, {Key: "label", Value: 1}})
	if m.limit > 0 {
		opts.SetLimit(int64(m.limit))
	}

	cur, err := m.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s", m.name)
	}
	var ts []topic.Topic
	if err := cur.All(ctx, &ts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode %s", m.name)
	}
	if err := topic.ValidateAll(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// Name implements Source.
func (m *Mongo) Name() string { return m.name }

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Source = (*Mongo)(nil)
