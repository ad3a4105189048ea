// Package youngplatform implements a client for the Young Platform
// cryptocurrency exchange v3 REST API. It covers public market data and
// authenticated trading endpoints, signing private requests with
// HMAC-SHA512.
//
// API endpoint: https://api.youngplatform.com/api/v3/
package youngplatform
