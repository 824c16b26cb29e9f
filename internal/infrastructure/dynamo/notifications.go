package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-gym-api/internal/domain"
)

// API is the subset of the DynamoDB client the repos use.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    API
	tableName string
}

func NewNotificationRepo(client API, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

// NextID atomically bumps the sequence item and returns the new value.
func (r *NotificationRepo) NextID(ctx context.Context) (int64, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      numKey(fieldNotificationID, counterID),
		UpdateExpression:         aws.String("ADD #seq :one"),
		ExpressionAttributeNames: map[string]string{"#seq": fieldSeq},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("next notification id: %w", err)
	}
	seq, ok := out.Attributes[fieldSeq].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("next notification id: sequence attribute missing")
	}
	return strconv.ParseInt(seq.Value, 10, 64)
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID int64) (*domain.Notification, error) {
	if notificationID == counterID {
		return nil, domain.ErrNotFound
	}
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       numKey(fieldNotificationID, notificationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, domain.ErrNotFound
	}
	var n domain.Notification
	if err := attributevalue.UnmarshalMap(out.Item, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// List scans every notification, skipping the sequence item.
func (r *NotificationRepo) List(ctx context.Context) ([]domain.Notification, error) {
	var (
		notifications []domain.Notification
		startKey      map[string]types.AttributeValue
	)
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                aws.String(r.tableName),
			FilterExpression:         aws.String("#id > :zero"),
			ExpressionAttributeNames: map[string]string{"#id": fieldNotificationID},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":zero": &types.AttributeValueMemberN{Value: "0"},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Notification
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		notifications = append(notifications, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return notifications, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Update overwrites the editable fields of an existing notification.
func (r *NotificationRepo) Update(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if n.NotificationID == counterID {
		return nil, domain.ErrNotFound
	}
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldTitle:     n.Title,
		fieldMessage:   n.Message,
		fieldDeliverAt: n.DeliverAt,
		fieldAudience:  n.Audience,
		fieldUpdatedAt: n.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	ue.Names["#pk"] = fieldNotificationID
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       numKey(fieldNotificationID, n.NotificationID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, notFoundIfConditionFailed(err)
	}
	var updated domain.Notification
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *NotificationRepo) Delete(ctx context.Context, notificationID int64) error {
	if notificationID == counterID {
		return domain.ErrNotFound
	}
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      numKey(fieldNotificationID, notificationID),
		ConditionExpression:      aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldNotificationID},
	})
	return notFoundIfConditionFailed(err)
}

func notFoundIfConditionFailed(err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return domain.ErrNotFound
	}
	return err
}
