package dynamo

import (
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/storage"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func userKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"email": &types.AttributeValueMemberS{Value: email}}
}

func (db *DynamoDB) GetUser(ctx context.Context, email string) (*models.User, error) {
	const op = "dynamo.DynamoDB.GetUser"
	out, err := db.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(db.tables.Users),
		Key:            userKey(email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	if len(out.Item) == 0 {
		return nil, storage.ErrNotFound
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, wrap(op, err)
	}
	return &user, nil
}

// InsertUser stores a new account. It fails with storage.ErrConflict if the email is taken.
func (db *DynamoDB) InsertUser(ctx context.Context, user *models.User) error {
	const op = "dynamo.DynamoDB.InsertUser"
	item, err := attributevalue.MarshalMap(withEmptyLists(*user))
	if err != nil {
		return wrap(op, err)
	}
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("email"))).
		Build()
	if err != nil {
		return wrap(op, err)
	}
	_, err = db.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(db.tables.Users),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrConflict
		}
		return wrap(op, err)
	}
	return nil
}

// AppendRental adds rental to the user's current rentals and bumps the version.
// The append is unconditional on version so concurrent purchases all land.
func (db *DynamoDB) AppendRental(ctx context.Context, email string, rental models.Rental) error {
	const op = "dynamo.DynamoDB.AppendRental"
	current := expression.Name("current_rented_movies")
	version := expression.Name("version")
	update := expression.
		Set(current, expression.ListAppend(
			expression.IfNotExists(current, expression.Value([]models.Rental{})),
			expression.Value([]models.Rental{rental}),
		)).
		Set(version, expression.Plus(expression.IfNotExists(version, expression.Value(0)), expression.Value(1)))
	return db.updateUser(ctx, op, email, update, expression.AttributeExists(expression.Name("email")), storage.ErrNotFound)
}

// UpdateRentals replaces both rental lists if the stored version still equals version.
func (db *DynamoDB) UpdateRentals(ctx context.Context, email string, current, old []models.Rental, version int64) error {
	const op = "dynamo.DynamoDB.UpdateRentals"
	update := expression.
		Set(expression.Name("current_rented_movies"), expression.Value(nonNil(current))).
		Set(expression.Name("old_movies"), expression.Value(nonNil(old))).
		Set(expression.Name("version"), expression.Value(version+1))
	return db.updateUser(ctx, op, email, update, versionCondition(version), storage.ErrEditConflict)
}

// UpdateWishlist replaces the wishlist if the stored version still equals version.
func (db *DynamoDB) UpdateWishlist(ctx context.Context, email string, wishlist models.Wishlist, version int64) error {
	const op = "dynamo.DynamoDB.UpdateWishlist"
	if wishlist == nil {
		wishlist = models.Wishlist{}
	}
	update := expression.
		Set(expression.Name("wishlist"), expression.Value(wishlist)).
		Set(expression.Name("version"), expression.Value(version+1))
	return db.updateUser(ctx, op, email, update, versionCondition(version), storage.ErrEditConflict)
}

func (db *DynamoDB) updateUser(
	ctx context.Context,
	op string,
	email string,
	update expression.UpdateBuilder,
	cond expression.ConditionBuilder,
	condErr error,
) error {
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return wrap(op, err)
	}
	_, err = db.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(db.tables.Users),
		Key:                       userKey(email),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return condErr
		}
		return wrap(op, err)
	}
	return nil
}

// Accounts written before versioning have no version attribute and read as 0.
func versionCondition(version int64) expression.ConditionBuilder {
	cond := expression.Name("version").Equal(expression.Value(version))
	if version == 0 {
		return expression.Or(cond, expression.AttributeNotExists(expression.Name("version")))
	}
	return cond
}

func nonNil(rentals []models.Rental) []models.Rental {
	if rentals == nil {
		return []models.Rental{}
	}
	return rentals
}

// withEmptyLists keeps list attributes as empty lists instead of NULL so list_append works on them.
func withEmptyLists(u models.User) models.User {
	if u.Genres == nil {
		u.Genres = []string{}
	}
	u.CurrentRentals = nonNil(u.CurrentRentals)
	u.OldRentals = nonNil(u.OldRentals)
	if u.Wishlist == nil {
		u.Wishlist = models.Wishlist{}
	}
	return u
}
