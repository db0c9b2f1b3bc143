// Command validator checks every scale definition in a directory and exits
// non-zero when any template fails validation. Meant for CI and for template
// authors before shipping a catalog change.
package main

import (
	"flag"
	"os"

	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/drivers/logger"
	"mindhub-service/internal/app/services/core/templates"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	dir := flag.String("dir", internalConfig.App.TemplateSourceDir, "directory containing scale template JSON files")
	flag.Parse()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	store := templates.NewTemplateStore(zapLogger)
	loaded, loadErrors, err := store.LoadAll(*dir)
	if err != nil {
		log.WithError(err).Errorf("Cannot read template directory %s", *dir)
		os.Exit(1)
	}

	for _, template := range loaded {
		valid, issues := store.ValidateTemplate(template.ID)
		entry := log.WithField("template", template.ID)
		if !valid {
			entry.Error("Template failed validation")
			for _, issue := range issues {
				entry.Errorf("  %s", issue)
			}
			continue
		}
		for _, issue := range issues {
			entry.Warn(issue)
		}
		entry.Infof("OK (%d items)", template.TotalItems)
	}

	for _, loadError := range loadErrors {
		entry := log.WithField("file", loadError.File)
		entry.Error("Template rejected")
		for _, reason := range loadError.Reasons {
			entry.Errorf("  %s", reason)
		}
	}

	if len(loadErrors) > 0 {
		log.Errorf("%d of %d template file(s) failed validation", len(loadErrors), len(loaded)+len(loadErrors))
		os.Exit(1)
	}
	log.Infof("All %d template(s) valid", len(loaded))
}
