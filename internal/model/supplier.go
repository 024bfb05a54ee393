package model

import "time"

type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxID     *string   `json:"taxId,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
