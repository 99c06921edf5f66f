package service

import (
	"context"
	"fmt"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"savethedate_backend/internals/features/donations/donations/model"
)

var SnapClient snap.Client

// InitMidtrans initialises the Snap client with the server key.
func InitMidtrans(serverKey string, production bool) {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	SnapClient.New(serverKey, env)
}

type Checkout struct {
	Token       string
	RedirectURL string
}

// Gateway opens a hosted payment page for a pending donation.
type Gateway interface {
	CreateCheckout(ctx context.Context, d *model.DonationModel, email string) (*Checkout, error)
}

type SnapGateway struct{}

func (SnapGateway) CreateCheckout(_ context.Context, d *model.DonationModel, email string) (*Checkout, error) {
	if d.PaymentReference == nil {
		return nil, fmt.Errorf("donation %s has no order id", d.ID)
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  *d.PaymentReference,
			GrossAmt: d.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: d.DonorName,
			Email: email,
		},
	}

	resp, mErr := SnapClient.CreateTransaction(req)
	if mErr != nil {
		return nil, mErr
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func NewOrderID() string {
	return fmt.Sprintf("DONATION-%d", time.Now().UnixNano())
}
