package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

func GenerateRandomString(length int) string {
	const charset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

// GenerateReceiptID builds the merchant-side receipt reference sent with a
// gateway order. Razorpay caps receipts at 40 characters.
func GenerateReceiptID() string {
	return fmt.Sprintf("rcpt_%d_%s", time.Now().Unix(), GenerateRandomString(8))
}
