package domain_test

import (
	"strings"
	"testing"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributeKind(t *testing.T) {
	tests := []struct {
		in        string
		want      domain.AttributeKind
		wantError bool
	}{
		{in: "text", want: domain.AttributeText},
		{in: "options", want: domain.AttributeOptions},
		{in: "multi_select", want: domain.AttributeMultiSelect},
		{in: "description", want: domain.AttributeDescription},
		{in: "color_swatch", wantError: true},
		{in: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseAttributeKind(tt.in)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAttributeHandlers_Exhaustive(t *testing.T) {
	render := func(attr domain.Attribute) (string, error) {
		return strings.ToUpper(attr.Name), nil
	}

	// missing a kind fails at construction time
	_, err := domain.NewAttributeHandlers(map[domain.AttributeKind]func(domain.Attribute) (string, error){
		domain.AttributeText: render,
	})
	require.ErrorContains(t, err, "no handler for attribute kind")

	handlers, err := domain.NewAttributeHandlers(map[domain.AttributeKind]func(domain.Attribute) (string, error){
		domain.AttributeText:        render,
		domain.AttributeOptions:     render,
		domain.AttributeMultiSelect: render,
		domain.AttributeDescription: render,
	})
	require.NoError(t, err)

	got, err := handlers.Handle(domain.Attribute{Name: "size", Kind: domain.AttributeOptions})
	require.NoError(t, err)
	assert.Equal(t, "SIZE", got)

	_, err = handlers.Handle(domain.Attribute{Name: "x", Kind: "mystery"})
	require.ErrorContains(t, err, "unknown attribute kind")
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in        string
		want      domain.Role
		wantError bool
	}{
		{in: "customer", want: domain.RoleCustomer},
		{in: "admin", want: domain.RoleAdmin},
		{in: "", want: domain.RoleCustomer},
		{in: "root", wantError: true},
	}

	for _, tt := range tests {
		t.Run("role "+tt.in, func(t *testing.T) {
			got, err := domain.ParseRole(tt.in)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
