package templates

import (
	"context"
	"net/http"
	"time"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TemplateController struct {
	Log             *zap.Logger
	TemplateUsecase contracts.TemplateUsecase
	SourceDir       string
}

func NewTemplateController(logger *zap.Logger, templateUsecase contracts.TemplateUsecase, sourceDir string) *TemplateController {
	return &TemplateController{
		Log:             logger,
		TemplateUsecase: templateUsecase,
		SourceDir:       sourceDir,
	}
}

func (ctrl *TemplateController) FindAll(w http.ResponseWriter, r *http.Request) {
	response := ctrl.TemplateUsecase.FindAll(r.Context())
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindTemplatesSuccessMessage, response)
}

func (ctrl *TemplateController) FindByID(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, constvars.URLParamTemplateID)

	response, err := ctrl.TemplateUsecase.FindByID(r.Context(), templateID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindTemplateByIDSuccessMessage, response)
}

func (ctrl *TemplateController) Reload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.TemplateUsecase.Reload(ctx, ctrl.SourceDir)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ReloadTemplatesSuccessMessage, response)
}
