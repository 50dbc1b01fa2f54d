package support

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/testutil"
)

// aScannedDocumentExists renders a synthetic scan into the temp dir.
// The filename stem doubles as the document type for batch discovery.
func (testCtx *TestContext) aScannedDocumentExists(filename string) error {
	stem := filename[:len(filename)-len(filepath.Ext(filename))]
	docType, err := document.ParseType(stem)
	if err != nil {
		return fmt.Errorf("filename %s is not named after a document type: %w", filename, err)
	}

	data, err := testutil.EncodeScanPNG(testutil.DefaultScanConfig(testutil.SampleLines(docType)...))
	if err != nil {
		return err
	}
	return os.WriteFile(testCtx.TempPath(filename), data, 0o600)
}

// anUnreadableDocumentExists writes a file that will not decode.
func (testCtx *TestContext) anUnreadableDocumentExists(filename string) error {
	return os.WriteFile(testCtx.TempPath(filename), []byte("not an image"), 0o600)
}

// anEmptyDirectoryExists creates an empty directory in the temp dir.
func (testCtx *TestContext) anEmptyDirectoryExists(dirname string) error {
	return os.MkdirAll(testCtx.TempPath(dirname), 0o750)
}

// RegisterDocumentSteps registers synthetic document setup steps.
func (testCtx *TestContext) RegisterDocumentSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a scanned document "([^"]*)" exists$`, testCtx.aScannedDocumentExists)
	sc.Step(`^an unreadable document "([^"]*)" exists$`, testCtx.anUnreadableDocumentExists)
	sc.Step(`^an empty directory "([^"]*)" exists$`, testCtx.anEmptyDirectoryExists)
}
