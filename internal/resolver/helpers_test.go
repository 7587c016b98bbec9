package resolver

import (
	"github.com/unidept/faqbot-go/internal/storage"
)

// testSnapshot builds the knowledge base the resolver tests run against:
// two processes, five categories, five active FAQ links. "Becas" has no
// links on purpose.
func testSnapshot() *Snapshot {
	processes := []storage.Process{
		{ID: 1, Name: "Servicio Social", Description: "El servicio social es un requisito de titulación que se realiza en instituciones públicas."},
		{ID: 2, Name: "Prácticas Profesionales", Description: "Las prácticas profesionales acercan al estudiante al ejercicio laboral."},
	}
	categories := []storage.Category{
		{ID: 1, Name: "Requisitos", Description: "Cada proceso define sus propios requisitos de ingreso."},
		{ID: 2, Name: "Documentos", Description: "Los documentos se entregan en la coordinación del departamento."},
		{ID: 3, Name: "Información general", Description: "Información general de los procesos del departamento."},
		{ID: 4, Name: "Entrega de seguimiento y reporte", Description: "Los reportes de seguimiento se entregan cada bimestre."},
		{ID: 5, Name: "Becas", Description: "Las becas se publican en la convocatoria semestral."},
	}
	links := []storage.FaqLink{
		{ID: 1, ProcessID: 1, CategoryID: 1, Response: "Para iniciar el servicio social necesitas el 70% de créditos."},
		{ID: 2, ProcessID: 1, CategoryID: 2, Response: "Debes entregar carta de presentación y plan de trabajo."},
		{ID: 3, ProcessID: 2, CategoryID: 1, Response: "Las prácticas profesionales piden el 60% de créditos aprobados."},
		{ID: 4, ProcessID: 1, CategoryID: 3, Response: "El servicio social es una actividad temporal obligatoria."},
		{ID: 5, ProcessID: 1, CategoryID: 4, Response: "El reporte de seguimiento del servicio social se sube a la plataforma."},
	}
	return NewSnapshot(processes, categories, links)
}

func (s *Snapshot) processByID(id int64) *storage.Process {
	for i := range s.Processes {
		if s.Processes[i].ID == id {
			return &s.Processes[i]
		}
	}
	return nil
}

func (s *Snapshot) categoryByID(id int64) *storage.Category {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}
