package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// Event dates and ticket sales windows are calendar dates with no
// time-of-day component.
const DATE_PARSE_FORMAT = "2006-01-02"

func GetEsewaSecret() string {
	return os.Getenv("ESEWA_SECRET_KEY")
}

func GetEsewaProductCode() string {
	code := os.Getenv("ESEWA_PRODUCT_CODE")
	if code == "" {
		code = "EPAYTEST"
	}
	return code
}

func GetEsewaFormURL() string {
	url := os.Getenv("ESEWA_FORM_URL")
	if url == "" {
		url = "https://rc-epay.esewa.com.np/api/epay/main/v2/form"
	}
	return url
}

func GetFrontendURL() string {
	return os.Getenv("FRONTEND_URL")
}
