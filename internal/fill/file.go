package fill

import (
	"context"
	"encoding/base64"
	"strings"

	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// FileInjector constructs a synthetic file from a base64 payload and assigns
// it to a file control's file list. It never fails the caller: any decoding
// or assignment problem is logged and reported as false.
type FileInjector struct {
	logger *zap.Logger
}

func NewFileInjector(logger *zap.Logger) *FileInjector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileInjector{logger: logger.Named("fileinject")}
}

// Inject decodes the payload, places it into the control's file list as a
// named file with the declared MIME type, and dispatches a bubbling change
// event. The payload may be raw base64 or a data: URL, which is the form the
// companion application produces.
func (fi *FileInjector) Inject(ctx context.Context, page schemas.Page, selector, payload, filename, mimeType string) bool {
	if strings.TrimSpace(payload) == "" {
		return false
	}
	data, err := decodeBase64Payload(payload)
	if err != nil {
		fi.logger.Warn("File payload decode failed",
			zap.String("selector", selector), zap.String("filename", filename), zap.Error(err))
		return false
	}

	if err := page.SetFiles(ctx, selector, filename, mimeType, data); err != nil {
		fi.logger.Warn("File list assignment failed",
			zap.String("selector", selector), zap.String("filename", filename), zap.Error(err))
		return false
	}

	if err := page.DispatchEvent(ctx, selector, "change"); err != nil {
		fi.logger.Debug("Change dispatch after file injection failed",
			zap.String("selector", selector), zap.Error(err))
	}
	if err := page.Highlight(ctx, selector); err != nil {
		fi.logger.Debug("Highlight failed", zap.String("selector", selector), zap.Error(err))
	}
	return true
}

// decodeBase64Payload accepts "data:<mime>;base64,<payload>" or bare base64,
// with or without padding.
func decodeBase64Payload(payload string) ([]byte, error) {
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	payload = strings.TrimSpace(payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(payload)
}
