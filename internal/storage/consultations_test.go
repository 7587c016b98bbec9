package storage

import (
	"context"
	"testing"
)

func TestRecordAndCountConsultations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	process, _ := db.CreateProcess(ctx, "Servicio Social", "")
	requisitos, _ := db.CreateCategory(ctx, "Requisitos", "")
	documentos, _ := db.CreateCategory(ctx, "Documentos", "")

	linkReq, err := db.CreateFaqLink(ctx, process.ID, requisitos.ID, "respuesta requisitos")
	if err != nil {
		t.Fatalf("CreateFaqLink failed: %v", err)
	}
	linkDoc, err := db.CreateFaqLink(ctx, process.ID, documentos.ID, "respuesta documentos")
	if err != nil {
		t.Fatalf("CreateFaqLink failed: %v", err)
	}

	log := NewConsultationLog(db, "chatbot_question")
	userID := "student-17"

	if err := log.RecordConsultation(ctx, linkReq.ID, &userID); err != nil {
		t.Fatalf("RecordConsultation failed: %v", err)
	}
	if err := log.RecordConsultation(ctx, linkReq.ID, nil); err != nil {
		t.Fatalf("RecordConsultation failed: %v", err)
	}
	if err := log.RecordConsultation(ctx, linkDoc.ID, nil); err != nil {
		t.Fatalf("RecordConsultation failed: %v", err)
	}

	counts, err := db.CountConsultationsByFaqLink(ctx, "chatbot_question")
	if err != nil {
		t.Fatalf("CountConsultationsByFaqLink failed: %v", err)
	}

	if len(counts) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(counts))
	}

	// Most consulted first
	if counts[0].FaqLinkID != linkReq.ID || counts[0].Count != 2 {
		t.Errorf("expected %d with count 2 first, got %+v", linkReq.ID, counts[0])
	}
	if counts[0].ProcessName != "Servicio Social" || counts[0].CategoryName != "Requisitos" {
		t.Errorf("unexpected labels: %+v", counts[0])
	}
	if counts[1].FaqLinkID != linkDoc.ID || counts[1].Count != 1 {
		t.Errorf("expected %d with count 1 second, got %+v", linkDoc.ID, counts[1])
	}
}

func TestCountConsultationsFiltersByAction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	process, _ := db.CreateProcess(ctx, "Titulación", "")
	category, _ := db.CreateCategory(ctx, "Requisitos", "")
	link, _ := db.CreateFaqLink(ctx, process.ID, category.ID, "respuesta")

	questions := NewConsultationLog(db, "chatbot_question")
	other := NewConsultationLog(db, "static_chatbot")

	_ = questions.RecordConsultation(ctx, link.ID, nil)
	_ = other.RecordConsultation(ctx, link.ID, nil)

	counts, err := db.CountConsultationsByFaqLink(ctx, "chatbot_question")
	if err != nil {
		t.Fatalf("CountConsultationsByFaqLink failed: %v", err)
	}
	if len(counts) != 1 || counts[0].Count != 1 {
		t.Errorf("expected a single count of 1 for chatbot_question, got %+v", counts)
	}
}
