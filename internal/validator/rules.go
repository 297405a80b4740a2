package validator

import (
	"log"

	"teamchat/internal/models"
	"teamchat/internal/naming"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers the project-specific tags on v.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A missing rule is a startup bug.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'member-role': admin or member
	mustRegister("member-role", validateMemberRole)

	// 'channel-name': 3..80 characters after normalization
	mustRegister("channel-name", validateChannelName)
}

func validateMemberRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty values
	}
	return models.MemberRole(value).Valid()
}

func validateChannelName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return naming.ValidChannelName(value)
}
