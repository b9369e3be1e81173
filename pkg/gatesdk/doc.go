// Package gatesdk is a Go client for the KeyGate account service. It covers
// the public registration/login endpoints and, through an authenticated
// Session, the admin invitation-key management endpoints.
//
// Basic usage:
//
//	client := gatesdk.NewClient("http://localhost:8080")
//	session, err := client.Login(ctx, "admin@example.com", "password")
//	if err != nil { ... }
//	key, err := session.IssueKey(ctx, gatesdk.IssueKeyRequest{Label: "beta", MaxUses: 5})
package gatesdk
