package cart

// AddProductRequest names the product to add; quantity always starts at one.
type AddProductRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// AddServiceRequest carries the counter-entered pricing for a service line.
type AddServiceRequest struct {
	ServiceID        string  `json:"serviceId" validate:"required"`
	BasePrice        float64 `json:"basePrice" validate:"required,gt=0"`
	AdditionalCharge float64 `json:"additionalCharge" validate:"required,gt=0"`
}

// QuantityRequest sets an absolute line quantity.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// NoteRequest attaches free-form instructions to a service line.
type NoteRequest struct {
	Note string `json:"note"`
}

// PhoneRequest attaches a callback number to a service line.
type PhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// MutationResponse pairs the updated cart with any warnings the
// mutation produced.
type MutationResponse struct {
	Cart    Cart     `json:"cart"`
	Notices []Notice `json:"notices"`
}

func newMutationResponse(c Cart, notices []Notice) MutationResponse {
	if notices == nil {
		notices = []Notice{}
	}
	return MutationResponse{Cart: c, Notices: notices}
}
