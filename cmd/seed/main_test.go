package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedOptions_Validate(t *testing.T) {
	valid := seedOptions{email: "admin@example.com", username: "admin", password: "Adm1n!Pass", role: "admin"}
	assert.NoError(t, valid.validate())

	tests := []struct {
		name string
		mod  func(o *seedOptions)
	}{
		{"missing email", func(o *seedOptions) { o.email = "" }},
		{"missing username", func(o *seedOptions) { o.username = "" }},
		{"unknown role", func(o *seedOptions) { o.role = "root" }},
		{"weak password", func(o *seedOptions) { o.password = "admin" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mod(&o)
			assert.Error(t, o.validate())
		})
	}
}

func TestRootCmd_DefaultRoleIsAdmin(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "admin", cmd.Flags().Lookup("role").DefValue)
}
