package dynamo

import (
	"cinevault/proj/internal/domain/filters"
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/storage"
	"context"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func movieKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"movie_id": &types.AttributeValueMemberS{Value: id}}
}

func (db *DynamoDB) Get(ctx context.Context, id string) (*models.Movie, error) {
	const op = "dynamo.DynamoDB.Get"
	out, err := db.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(db.tables.Movies),
		Key:       movieKey(id),
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	if len(out.Item) == 0 {
		return nil, storage.ErrNotFound
	}
	var movie models.Movie
	if err := attributevalue.UnmarshalMap(out.Item, &movie); err != nil {
		return nil, wrap(op, err)
	}
	return &movie, nil
}

// ListByGenre reads a single page of at most limit items from the genre index.
func (db *DynamoDB) ListByGenre(ctx context.Context, genre string, limit int) ([]models.Movie, error) {
	const op = "dynamo.DynamoDB.ListByGenre"
	keyCond := expression.Key("genre").Equal(expression.Value(genre))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, wrap(op, err)
	}
	out, err := db.api.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(db.tables.Movies),
		IndexName:                 aws.String(db.tables.GenreIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	movies := make([]models.Movie, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &movies); err != nil {
		return nil, wrap(op, err)
	}
	return movies, nil
}

// List returns catalog records. Without a sort it reads at most f.Limit items
// in scan order; with a sort it scans the whole table, sorts, then truncates.
func (db *DynamoDB) List(ctx context.Context, f filters.Filters) ([]models.Movie, error) {
	const op = "dynamo.DynamoDB.List"
	input := &dynamodb.ScanInput{TableName: aws.String(db.tables.Movies)}
	if !f.HasSort() && f.Limit > 0 {
		input.Limit = aws.Int32(int32(f.Limit))
		out, err := db.api.Scan(ctx, input)
		if err != nil {
			return nil, wrap(op, err)
		}
		movies := make([]models.Movie, 0, len(out.Items))
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &movies); err != nil {
			return nil, wrap(op, err)
		}
		return movies, nil
	}
	movies, err := db.scanMovies(ctx, input, 0)
	if err != nil {
		return nil, wrap(op, err)
	}
	return sortAndLimit(movies, f), nil
}

func (db *DynamoDB) ListReleasedBetween(ctx context.Context, from, to time.Time, f filters.Filters) ([]models.Movie, error) {
	const op = "dynamo.DynamoDB.ListReleasedBetween"
	releaseDate := expression.Name("release_date")
	var cond expression.ConditionBuilder
	if to.IsZero() {
		cond = releaseDate.GreaterThanEqual(expression.Value(lowerBound(from)))
	} else {
		cond = releaseDate.Between(expression.Value(lowerBound(from)), expression.Value(upperBound(to)))
	}
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, wrap(op, err)
	}
	movies, err := db.scanMovies(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(db.tables.Movies),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, 0)
	if err != nil {
		return nil, wrap(op, err)
	}
	return sortAndLimit(movies, f), nil
}

func (db *DynamoDB) ListFree(ctx context.Context, limit int) ([]models.Movie, error) {
	const op = "dynamo.DynamoDB.ListFree"
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("price").Equal(expression.Value(0))).
		Build()
	if err != nil {
		return nil, wrap(op, err)
	}
	movies, err := db.scanMovies(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(db.tables.Movies),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, limit)
	if err != nil {
		return nil, wrap(op, err)
	}
	return movies, nil
}

// IncrementLikes adds one like, treating a missing counter as zero.
func (db *DynamoDB) IncrementLikes(ctx context.Context, id string) (int64, error) {
	const op = "dynamo.DynamoDB.IncrementLikes"
	likes := expression.Name("likes")
	update := expression.Set(likes, expression.Plus(expression.IfNotExists(likes, expression.Value(0)), expression.Value(1)))
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("movie_id"))).
		Build()
	if err != nil {
		return 0, wrap(op, err)
	}
	out, err := db.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(db.tables.Movies),
		Key:                       movieKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return 0, storage.ErrNotFound
		}
		return 0, wrap(op, err)
	}
	var updated struct {
		Likes int64 `dynamodbav:"likes"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return 0, wrap(op, err)
	}
	return updated.Likes, nil
}

// scanMovies follows scan pages until the table is exhausted or max items
// were collected (max <= 0 means no bound).
func (db *DynamoDB) scanMovies(ctx context.Context, input *dynamodb.ScanInput, max int) ([]models.Movie, error) {
	var movies []models.Movie
	paginator := dynamodb.NewScanPaginator(db.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []models.Movie
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		movies = append(movies, batch...)
		if max > 0 && len(movies) >= max {
			return movies[:max], nil
		}
	}
	return movies, nil
}

// release_date is compared as a string and may be stored with or without
// fractional seconds. The lower bound drops the zone suffix so both
// "…:00Z" and "…:00.000Z" sort after it; the upper bound keeps "Z",
// which sorts after any ".nnn" fraction within the same second.
const boundLayout = "2006-01-02T15:04:05"

func lowerBound(t time.Time) string {
	return t.UTC().Format(boundLayout)
}

func upperBound(t time.Time) string {
	return t.UTC().Format(boundLayout) + "Z"
}

func sortAndLimit(movies []models.Movie, f filters.Filters) []models.Movie {
	if f.HasSort() {
		column := f.SortColumn()
		desc := f.SortDirection() == filters.DescSort
		sort.SliceStable(movies, func(i, j int) bool {
			if desc {
				return lessMovie(movies[j], movies[i], column)
			}
			return lessMovie(movies[i], movies[j], column)
		})
	}
	if f.Limit > 0 && len(movies) > f.Limit {
		movies = movies[:f.Limit]
	}
	return movies
}

func lessMovie(a, b models.Movie, column string) bool {
	switch column {
	case "rating":
		return a.Rating < b.Rating
	case "likes":
		return a.Likes < b.Likes
	case "release_date":
		return a.ReleaseDate.Before(b.ReleaseDate)
	case "created_at":
		return a.CreatedAt.Before(b.CreatedAt)
	default:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
}
