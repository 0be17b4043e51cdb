package databases

// go generate: mockery --name LeadDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadtrackr/lead-tracker-api/models"
)

const leadName = "leads"
const counterName = "counters"

// LeadDatabase contains the methods to use with the lead database
type LeadDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Lead, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Lead, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*models.Lead, error)
	NextID(context.Context) (int, error)
	EnsureIndexes(context.Context) error
}

type leadDatabase struct {
	db DatabaseHelper
}

// NewLeadDatabase initializes a new instance of lead database with the provided db connection
func NewLeadDatabase(db DatabaseHelper) LeadDatabase {
	return &leadDatabase{
		db: db,
	}
}

func (l *leadDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Lead, error) {
	lead := &models.Lead{}
	err := l.db.Collection(leadName).FindOne(ctx, filter, opts...).Decode(&lead)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *leadDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Lead, error) {
	var leads []models.Lead
	cr, err := l.db.Collection(leadName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&leads)
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (l *leadDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return l.db.Collection(leadName).InsertOne(ctx, document, opts...)
}

func (l *leadDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*models.Lead, error) {
	_, err := l.db.Collection(leadName).UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return nil, err
	}
	lead := &models.Lead{}
	err = l.db.Collection(leadName).FindOne(ctx, filter).Decode(&lead)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// NextID increments and returns the lead id sequence. The counter document is
// upserted, so the first call on a fresh database returns 1.
func (l *leadDatabase) NextID(ctx context.Context) (int, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := l.db.Collection(counterName).FindOneAndUpdate(ctx,
		bson.M{"_id": leadName},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// EnsureIndexes creates the unique index on email. Uniqueness is enforced by
// the store itself so concurrent creates with the same email cannot race a
// check-then-insert.
func (l *leadDatabase) EnsureIndexes(ctx context.Context) error {
	_, err := l.db.Collection(leadName).CreateIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
