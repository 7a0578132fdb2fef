// Package razorpay wraps the Razorpay orders API.
package razorpay

import (
	"context"
	"errors"
	"fmt"

	rzp "github.com/razorpay/razorpay-go"
)

var ErrMalformedResponse = errors.New("malformed order response")

type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// OrdersAPI is satisfied by the SDK's order resource.
type OrdersAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Client struct {
	orders   OrdersAPI
	keyID    string
	currency string
}

func New(keyID, keySecret, currency string) *Client {
	rz := rzp.NewClient(keyID, keySecret)
	return NewWithOrders(rz.Order, keyID, currency)
}

func NewWithOrders(orders OrdersAPI, keyID, currency string) *Client {
	return &Client{orders: orders, keyID: keyID, currency: currency}
}

// KeyID is the public key the checkout widget needs.
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder opens an order for amount minor units. The SDK has no context support,
// so ctx is only checked before the call.
func (c *Client) CreateOrder(ctx context.Context, amount int64, receipt string, notes map[string]string) (*Order, error) {
	const op = "razorpay.Client.CreateOrder"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	data := map[string]interface{}{
		"amount":   amount,
		"currency": c.currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}
	resp, err := c.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order, err := parseOrder(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.Amount == 0 {
		order.Amount = amount
	}
	if order.Currency == "" {
		order.Currency = c.currency
	}
	if order.Receipt == "" {
		order.Receipt = receipt
	}
	return order, nil
}

func (c *Client) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	const op = "razorpay.Client.FetchOrder"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.orders.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order, err := parseOrder(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func parseOrder(resp map[string]interface{}) (*Order, error) {
	id, _ := resp["id"].(string)
	if id == "" {
		return nil, ErrMalformedResponse
	}
	order := &Order{ID: id, Notes: map[string]string{}}
	if amount, ok := resp["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	order.Currency, _ = resp["currency"].(string)
	order.Receipt, _ = resp["receipt"].(string)
	// The API sends an empty array instead of an object when there are no notes.
	if notes, ok := resp["notes"].(map[string]interface{}); ok {
		for k, v := range notes {
			order.Notes[k] = fmt.Sprint(v)
		}
	}
	return order, nil
}
