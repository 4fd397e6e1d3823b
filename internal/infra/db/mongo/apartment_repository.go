package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	domainapartments "aptcatalog/internal/domain/apartments"
)

const apartmentsCollection = "apartments"

type ApartmentRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewApartmentRepository(db *mongo.Database) *ApartmentRepository {
	return &ApartmentRepository{col: db.Collection(apartmentsCollection), now: time.Now}
}

// EnsureIndexes creates the unique (unitNumber, project) index and the
// secondary indexes used by filtering and ordering.
func (r *ApartmentRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "unitNumber", Value: 1}, {Key: "project", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unit_project_unique"),
		},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "bedrooms", Value: 1}}},
		{Keys: bson.D{{Key: "size", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: 1}}},
		{Keys: bson.D{{Key: "project", Value: 1}}},
		{Keys: bson.D{{Key: "isAvailable", Value: 1}}},
		{Keys: bson.D{{Key: "searchText", Value: 1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo: create apartment indexes: %w", err)
	}
	return nil
}

func (r *ApartmentRepository) Insert(ctx context.Context, apartment *domainapartments.Apartment) error {
	apartment.Stamp(r.now())
	doc := newApartmentDocument(apartment)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainapartments.DuplicateUnitError(err)
		}
		return err
	}
	return nil
}

func (r *ApartmentRepository) ByID(ctx context.Context, id domainapartments.ApartmentID) (*domainapartments.Apartment, error) {
	var doc apartmentDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainapartments.NotFoundError(id)
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Find issues the page read and the count concurrently over the same filter.
func (r *ApartmentRepository) Find(ctx context.Context, predicate domainapartments.Predicate, window domainapartments.Window) (domainapartments.SearchResult, error) {
	filter := translatePredicate(predicate)

	var (
		items []*domainapartments.Apartment
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
			SetSkip(window.Skip()).
			SetLimit(int64(window.Limit))
		cur, err := r.col.Find(gctx, filter, opts)
		if err != nil {
			return err
		}
		var docs []apartmentDocument
		if err := cur.All(gctx, &docs); err != nil {
			return err
		}
		items = make([]*domainapartments.Apartment, 0, len(docs))
		for _, doc := range docs {
			items = append(items, doc.toAggregate())
		}
		return nil
	})
	g.Go(func() error {
		n, err := r.col.CountDocuments(gctx, filter)
		if err != nil {
			return err
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return domainapartments.SearchResult{}, err
	}
	return domainapartments.SearchResult{Items: items, Total: total}, nil
}

// FilterOptionsSource reads distinct values and the numeric projection; any
// failed read fails the whole call.
func (r *ApartmentRepository) FilterOptionsSource(ctx context.Context) (domainapartments.FilterOptionsSource, error) {
	var src domainapartments.FilterOptionsSource
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		values, err := r.distinctStrings(gctx, "location")
		src.Locations = values
		return err
	})
	g.Go(func() error {
		values, err := r.distinctStrings(gctx, "project")
		src.Projects = values
		return err
	})
	g.Go(func() error {
		values, err := r.distinctStrings(gctx, "amenities")
		src.Amenities = values
		return err
	})
	g.Go(func() error {
		projection := bson.D{{Key: "price", Value: 1}, {Key: "bedrooms", Value: 1}, {Key: "bathrooms", Value: 1}, {Key: "size", Value: 1}}
		cur, err := r.col.Find(gctx, bson.D{}, options.Find().SetProjection(projection))
		if err != nil {
			return err
		}
		var rows []statsDocument
		if err := cur.All(gctx, &rows); err != nil {
			return err
		}
		src.Stats = make([]domainapartments.NumericStats, 0, len(rows))
		for _, row := range rows {
			src.Stats = append(src.Stats, row.toStats())
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domainapartments.FilterOptionsSource{}, err
	}
	return src, nil
}

func (r *ApartmentRepository) distinctStrings(ctx context.Context, field string) ([]string, error) {
	raw, err := r.col.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

var _ domainapartments.Repository = (*ApartmentRepository)(nil)
