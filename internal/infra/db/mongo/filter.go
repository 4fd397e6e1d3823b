package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domainapartments "aptcatalog/internal/domain/apartments"
)

// translatePredicate renders a predicate as a bson filter document.
// An empty predicate yields an empty document that matches everything.
func translatePredicate(p domainapartments.Predicate) bson.D {
	filter := bson.D{}
	for _, clause := range p.Clauses() {
		field := string(clause.Field)
		switch clause.Kind {
		case domainapartments.ClauseContains:
			filter = append(filter, bson.E{Key: field, Value: primitive.Regex{Pattern: clause.Pattern, Options: "i"}})
		case domainapartments.ClauseRange:
			bounds := bson.D{}
			if clause.Min != nil {
				bounds = append(bounds, bson.E{Key: "$gte", Value: *clause.Min})
			}
			if clause.Max != nil {
				bounds = append(bounds, bson.E{Key: "$lte", Value: *clause.Max})
			}
			filter = append(filter, bson.E{Key: field, Value: bounds})
		case domainapartments.ClauseEquals:
			filter = append(filter, bson.E{Key: field, Value: clause.Bool})
		case domainapartments.ClauseContainsAll:
			filter = append(filter, bson.E{Key: field, Value: bson.D{{Key: "$all", Value: clause.Values}}})
		}
	}
	return filter
}
