package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductsCollection is the collection backend product documents live in.
const ProductsCollection = "products"

type mongoRepo struct{ coll *mongo.Collection }

// NewMongoRepository reads documents in the backend's own shape. They are
// handed out as relaxed extended JSON, which the normalizer understands.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepo{coll: db.Collection(ProductsCollection)}
}

func (r *mongoRepo) Get(ctx context.Context, id string) (json.RawMessage, error) {
	raw, err := r.coll.FindOne(ctx, bson.M{"_id": idFilter(id)}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return toJSON(raw)
}

func (r *mongoRepo) List(ctx context.Context, filter ListFilter) ([]json.RawMessage, error) {
	q := bson.M{}
	if filter.CategoryID != "" {
		q["$or"] = bson.A{
			bson.M{"category": filter.CategoryID},
			bson.M{"category._id": filter.CategoryID},
			bson.M{"categoryId": filter.CategoryID},
		}
	}
	if len(filter.IDs) > 0 {
		ids := bson.A{}
		for _, id := range filter.IDs {
			ids = append(ids, idValue(id))
		}
		q["_id"] = bson.M{"$in": ids}
	}
	if filter.ActiveOnly {
		q["isActive"] = bson.M{"$ne": false}
		q["deletedAt"] = nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []json.RawMessage
	for cur.Next(ctx) {
		doc, err := toJSON(cur.Current)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, cur.Err()
}

func (r *mongoRepo) Save(ctx context.Context, doc *Document) error {
	var body bson.M
	if err := bson.UnmarshalExtJSON(doc.Body, false, &body); err != nil {
		return fmt.Errorf("decode product document: %w", err)
	}
	key := idValue(doc.ID)
	body["_id"] = key
	body["updatedAt"] = doc.UpdatedAt
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": key}, body, options.Replace().SetUpsert(true))
	return err
}

// idValue stores hex ids as ObjectIDs, the backend's native key type.
func idValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func idFilter(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$in": bson.A{oid, id}}
	}
	return id
}

func toJSON(raw bson.Raw) (json.RawMessage, error) {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode product document: %w", err)
	}
	return json.RawMessage(data), nil
}
