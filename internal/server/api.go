package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"businesscase/internal/domain"
	"businesscase/internal/engine"
	"businesscase/internal/render"
)

// maxUploadBytes bounds imported documents.
const maxUploadBytes = 32 << 20

var errorStatuses = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusInternalServerError,
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerFields(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-fields",
		Method:      http.MethodGet,
		Path:        "/fields",
		Summary:     "List record fields with defaults",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body struct {
			Items []FieldResponse `json:"items"`
		} `json:"body"`
	}, error) {
		out := &struct {
			Body struct {
				Items []FieldResponse `json:"items"`
			} `json:"body"`
		}{}
		out.Body.Items = fieldResponses(domain.Fields())
		return out, nil
	})
}

func registerMetrics(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "compute-metrics",
		Method:      http.MethodPost,
		Path:        "/metrics",
		Summary:     "Compute ROI metrics for a record",
		Errors:      errorStatuses,
	}, func(ctx context.Context, input *struct {
		Body RecordRequest `json:"body"`
	}) (*struct {
		Body MetricsResponse `json:"body"`
	}, error) {
		m := e.Metrics(input.Body.Record())
		return &struct {
			Body MetricsResponse `json:"body"`
		}{Body: metricsResponse(m)}, nil
	})
}

func registerCases(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-case",
		Method:        http.MethodPost,
		Path:          "/cases",
		Summary:       "Generate the business case artifacts",
		DefaultStatus: http.StatusCreated,
		Errors:        errorStatuses,
	}, func(ctx context.Context, input *struct {
		Body RecordRequest `json:"body"`
	}) (*struct {
		Body GenerationResponse `json:"body"`
	}, error) {
		gen, err := e.Generate(ctx, input.Body.Record())
		if err != nil {
			return nil, handleError(err)
		}
		resp := generationResponse(gen)
		if p, ok := PrincipalFromContext(ctx); ok {
			resp.RequestedBy = p.Subject
		}
		return &struct {
			Body GenerationResponse `json:"body"`
		}{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-cases",
		Method:      http.MethodGet,
		Path:        "/cases",
		Summary:     "List generations of this session",
		Errors:      errorStatuses,
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" default:"50" minimum:"1" maximum:"500"`
	}) (*struct {
		Body struct {
			Items []GenerationResponse `json:"items"`
		} `json:"body"`
	}, error) {
		items, err := e.ListGenerations(ctx, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Items []GenerationResponse `json:"items"`
			} `json:"body"`
		}{}
		out.Body.Items = generationResponses(items)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-case",
		Method:      http.MethodGet,
		Path:        "/cases/{id}",
		Summary:     "Get a generation",
		Errors:      append([]int{http.StatusNotFound}, errorStatuses...),
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body GenerationResponse `json:"body"`
	}, error) {
		gen, err := e.GetGeneration(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body GenerationResponse `json:"body"`
		}{Body: generationResponse(gen)}, nil
	})
}

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List journal events",
		Errors:      errorStatuses,
	}, func(ctx context.Context, input *struct {
		EntityID string `query:"entity_id"`
		Limit    int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
	}) (*struct {
		Body struct {
			Items []EventResponse `json:"items"`
		} `json:"body"`
	}, error) {
		items, err := e.ListEvents(ctx, input.EntityID, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Items []EventResponse `json:"items"`
			} `json:"body"`
		}{}
		out.Body.Items = eventResponses(items)
		return out, nil
	})
}

func registerImports(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:      "import-json",
		Method:           http.MethodPost,
		Path:             "/imports/json",
		Summary:          "Import a previously exported JSON record",
		MaxBodyBytes:     maxUploadBytes,
		Errors:           errorStatuses,
		SkipValidateBody: true, // malformed JSON is reported in the result
	}, func(ctx context.Context, input *struct {
		RawBody []byte `contentType:"application/json"`
	}) (*struct {
		Body ImportResponse `json:"body"`
	}, error) {
		res, err := e.ImportJSON(ctx, input.RawBody)
		return &struct {
			Body ImportResponse `json:"body"`
		}{Body: importResponse(res, err)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:  "import-docx",
		Method:       http.MethodPost,
		Path:         "/imports/docx",
		Summary:      "Import a filled-in Word questionnaire",
		MaxBodyBytes: maxUploadBytes,
		Errors:       errorStatuses,
	}, func(ctx context.Context, input *struct {
		RawBody []byte `contentType:"application/vnd.openxmlformats-officedocument.wordprocessingml.document"`
	}) (*struct {
		Body ImportResponse `json:"body"`
	}, error) {
		res, err := e.ImportDocument(ctx, input.RawBody)
		return &struct {
			Body ImportResponse `json:"body"`
		}{Body: importResponse(res, err)}, nil
	})
}

type fileOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func registerQuestionnaire(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "questionnaire",
		Method:      http.MethodGet,
		Path:        "/questionnaire",
		Summary:     "Download the Word questionnaire",
		Errors:      errorStatuses,
	}, func(ctx context.Context, _ *struct{}) (*fileOutput, error) {
		data, err := e.Questionnaire(domain.NewRecord())
		if err != nil {
			return nil, handleError(err)
		}
		return &fileOutput{
			ContentType:        render.DocxContentType,
			ContentDisposition: attachment(render.QuestionnaireFile),
			Body:               data,
		}, nil
	})
}
