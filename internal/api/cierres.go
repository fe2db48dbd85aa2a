package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"unificador/internal/model"
)

// SubirCSVCierre stages a daily-closing CSV: the file travels as a multipart
// upload and the backend returns the parsed rows for confirmation. Nothing is
// committed until ProcesarCierre is called with the staged data.
func (c *Client) SubirCSVCierre(ctx context.Context, nombreArchivo string, contenido []byte, usuarioID int) (*model.CierreEscenificado, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("archivo", nombreArchivo)
	if err != nil {
		return nil, fmt.Errorf("api: preparar archivo: %w", err)
	}
	if _, err := part.Write(contenido); err != nil {
		return nil, fmt.Errorf("api: escribir archivo: %w", err)
	}
	if err := w.WriteField("usuario_id", strconv.Itoa(usuarioID)); err != nil {
		return nil, fmt.Errorf("api: escribir usuario_id: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var resp model.CierreEscenificado
	if err := c.do(ctx, http.MethodPost, "/cierres-diarios/subir-csv", w.FormDataContentType(), &buf, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcesarCierreRequest is the commit body of POST /cierres-diarios/procesar.
type ProcesarCierreRequest struct {
	Productos     []model.ProductoCSV `json:"productos"`
	NombreArchivo string              `json:"nombre_archivo"`
	UsuarioID     int                 `json:"usuario_id"`
}

// ProcesarCierre finalizes a staged closing against the given user. A failure
// here leaves the staged upload orphaned server-side; callers are expected to
// log the archivo name for manual follow-up.
func (c *Client) ProcesarCierre(ctx context.Context, req ProcesarCierreRequest) (*model.CierreResultado, error) {
	var resp model.CierreResultado
	if err := c.postJSON(ctx, "/cierres-diarios/procesar", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
