package verification

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stylecheck/internal/config"
	verifSvc "stylecheck/internal/domain/services/verification"
)

// validateVerifyDocumentRequest checks a verification request before
// any template lookup happens.
func validateVerifyDocumentRequest(req *verifSvc.VerifyDocumentRequest) error {
	if req == nil {
		return validation.NewError("validation_required", "request is required")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.TemplateName,
			validation.Required,
			validation.Length(1, config.MaxTemplateNameLength),
		),
		validation.Field(&req.DocumentName,
			validation.Required,
			validation.Length(1, config.MaxDocumentNameLength),
		),
		validation.Field(&req.DocumentBytes, validation.Required),
	)
}
