package models

import (
	"fmt"
	"strings"
)

// Channel is where an order came from.
type Channel string

const (
	ChannelFacebook  Channel = "Facebook Page"
	ChannelInstagram Channel = "Instagram"
	ChannelPhone     Channel = "Phone"
	ChannelWhatsApp  Channel = "WhatsApp"
	ChannelOther     Channel = "Other"
)

// Channels lists the accepted channels in display order.
var Channels = []Channel{ChannelFacebook, ChannelInstagram, ChannelPhone, ChannelWhatsApp, ChannelOther}

// PricingType selects which product price an order uses.
type PricingType string

const (
	PricingRetail    PricingType = "Retail"
	PricingWholesale PricingType = "Wholesale"
)

var PricingTypes = []PricingType{PricingRetail, PricingWholesale}

// OrderStatus is the payment/delivery state recorded with an order.
type OrderStatus string

const (
	StatusPaid      OrderStatus = "Paid"
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusCancelled OrderStatus = "Cancelled"
)

var Statuses = []OrderStatus{StatusPaid, StatusPending, StatusShipped, StatusCancelled}

// MovementReason explains a stock change.
type MovementReason string

const (
	ReasonSale       MovementReason = "Sale"
	ReasonPurchase   MovementReason = "Purchase"
	ReasonAdjustment MovementReason = "Adjustment"
	ReasonReturnIn   MovementReason = "ReturnIn"
	ReasonReturnOut  MovementReason = "ReturnOut"
)

// ManualReasons are the reasons accepted for a manual stock adjustment.
var ManualReasons = []MovementReason{ReasonPurchase, ReasonAdjustment, ReasonReturnIn, ReasonReturnOut}

func parseEnum[T ~string](kind, raw string, allowed []T) (T, error) {
	v := strings.TrimSpace(raw)
	for _, a := range allowed {
		if strings.EqualFold(string(a), v) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q", ErrInvalidEnum, kind, raw)
}

// ParseChannel accepts any of Channels, case-insensitively.
func ParseChannel(s string) (Channel, error) { return parseEnum("channel", s, Channels) }

// ParsePricingType returns Retail for an empty value.
func ParsePricingType(s string) (PricingType, error) {
	if strings.TrimSpace(s) == "" {
		return PricingRetail, nil
	}
	return parseEnum("pricing type", s, PricingTypes)
}

func ParseStatus(s string) (OrderStatus, error) { return parseEnum("status", s, Statuses) }

// ParseManualReason rejects Sale, which only PlaceOrder records.
func ParseManualReason(s string) (MovementReason, error) {
	return parseEnum("reason", s, ManualReasons)
}
