// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CommercePurchaseTable represents the 'commerce.purchase' table
type CommercePurchaseTable struct {
	Table      string
	ID         string
	UserID     string
	BookID     string
	Reference  string
	Status     string
	PaymentID  string
	ApprovedAt string
	CreatedAt  string
	UpdatedAt  string
}

// CommercePurchase is the schema definition for commerce.purchase
var CommercePurchase = CommercePurchaseTable{
	Table:      "commerce.purchase",
	ID:         "id",
	UserID:     "userid",
	BookID:     "bookid",
	Reference:  "reference",
	Status:     "status",
	PaymentID:  "paymentid",
	ApprovedAt: "approvedat",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}
