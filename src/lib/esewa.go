package lib

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"accesscrate/src/config"
	"accesscrate/src/types"
)

// EsewaClient builds the signed form-redirect descriptor the gateway expects
// and decodes its confirmation callbacks. eSewa has no API client; the whole
// exchange is a browser redirect plus a signed callback.
type EsewaClient struct {
	Secret      string
	ProductCode string
	FormURL     string
	SuccessURL  string
	FailureURL  string
}

var esewaClient *EsewaClient

func GetEsewaClient() *EsewaClient {
	if esewaClient != nil {
		return esewaClient
	}
	frontend := config.GetFrontendURL()
	esewaClient = &EsewaClient{
		Secret:      config.GetEsewaSecret(),
		ProductCode: config.GetEsewaProductCode(),
		FormURL:     config.GetEsewaFormURL(),
		SuccessURL:  frontend + "/events",
		FailureURL:  frontend,
	}
	return esewaClient
}

// NewEsewaClient replaces the shared client. Tests swap in fixed secrets.
func NewEsewaClient(c *EsewaClient) *EsewaClient {
	esewaClient = c
	return esewaClient
}

// RedirectDescriptor carries everything the frontend needs to submit the
// gateway form.
type RedirectDescriptor struct {
	PaymentURL            string `json:"payment_url"`
	Amount                string `json:"amount"`
	TaxAmount             string `json:"tax_amount"`
	TotalAmount           string `json:"total_amount"`
	TransactionUUID       string `json:"transaction_uuid"`
	ProductCode           string `json:"product_code"`
	ProductServiceCharge  string `json:"product_service_charge"`
	ProductDeliveryCharge string `json:"product_delivery_charge"`
	SuccessURL            string `json:"success_url"`
	FailureURL            string `json:"failure_url"`
	SignedFieldNames      string `json:"signed_field_names"`
	Signature             string `json:"signature"`
}

// FormatAmount renders an amount the way it is signed and compared: two
// decimal places, no grouping.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseAmount accepts the gateway's amount strings, which may carry digit
// grouping commas.
func ParseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// Sign computes base64(HMAC-SHA256(secret, message)) over the three signed
// fields in their fixed order.
func (c *EsewaClient) Sign(totalAmount, transactionUUID string) string {
	message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s", totalAmount, transactionUUID, c.ProductCode)
	mac := hmac.New(sha256.New, []byte(c.Secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the signature for a callback payload and
// compares in constant time.
func (c *EsewaClient) VerifySignature(payload *types.EsewaCallbackPayload, signature string) bool {
	expected := c.Sign(payload.TotalAmount, payload.TransactionUUID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// BuildRedirect assembles the signed descriptor for a pending payment.
func (c *EsewaClient) BuildRedirect(totalAmount float64, transactionUUID string) *RedirectDescriptor {
	total := FormatAmount(totalAmount)
	return &RedirectDescriptor{
		PaymentURL:            c.FormURL,
		Amount:                total,
		TaxAmount:             "0",
		TotalAmount:           total,
		TransactionUUID:       transactionUUID,
		ProductCode:           c.ProductCode,
		ProductServiceCharge:  "0",
		ProductDeliveryCharge: "0",
		SuccessURL:            c.SuccessURL,
		FailureURL:            c.FailureURL,
		SignedFieldNames:      "total_amount,transaction_uuid,product_code",
		Signature:             c.Sign(total, transactionUUID),
	}
}

// DecodeCallbackData unpacks the base64 JSON blob eSewa appends to GET
// callbacks as ?data=.
func DecodeCallbackData(data string) (*types.EsewaCallbackPayload, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return nil, err
		}
	}
	var payload types.EsewaCallbackPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CallbackComplete is the gateway's success marker, compared
// case-insensitively.
func CallbackComplete(status string) bool {
	return strings.EqualFold(status, "COMPLETE")
}
