package dto

type PurchaseRequestInput struct {
	Credits       int     `json:"credits" binding:"required,min=1,max=100"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	ExternalTxnID string  `json:"external_txn_id" binding:"required,min=4,max=100"`
	PhoneNumber   string  `json:"phone_number" binding:"required,min=6,max=30"`
}

type AdjustCreditsInput struct {
	Credits int    `json:"credits" binding:"required"`
	Note    string `json:"note" binding:"max=500"`
}
