package service

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

type TemplateSet string

const (
	TemplatesWithLink TemplateSet = "with_link"
	TemplatesNoLink   TemplateSet = "no_link"

	linkPlaceholder = "{link}"
)

var defaultTemplates = map[TemplateSet][]string{
	TemplatesWithLink: {
		"COBOM: Para compartilhar sua localização com a central de emergência, acesse: {link}",
		"Corpo de Bombeiros: Clique no link para enviar sua localização: {link}",
		"Central 193: Acesse o link para compartilhar sua posição: {link}",
		"COBOM Emergências: Link de localização: {link} - Ignore se não solicitou atendimento.",
		"COBOM: para compartilhar sua localização com a central, acesse o link a seguir: {link}. Caso você não tenha solicitado atendimento, ignore esta mensagem.",
		"Central de Emergências 193: Por favor, acesse {link} para enviar sua localização. Mensagem automática do Corpo de Bombeiros.",
	},
	TemplatesNoLink: {
		"COBOM 193: Acesse o site e digite seu telefone para compartilhar sua localização. Em caso de dúvidas, ligue 193.",
		"Corpo de Bombeiros: Entre no site informado pelo atendente e digite seu número de telefone para enviar sua localização.",
		"Central 193: Acesse nosso site e informe seu telefone para compartilharmos sua localização com a equipe de resgate.",
	},
}

// TemplateRotator picks message bodies so that consecutive dispatches from the same
// set never reuse the same wording. One instance is shared by the whole process.
type TemplateRotator interface {
	Pick(set TemplateSet) string
	Render(template, link string) string
}

type templateRotator struct {
	mu        sync.Mutex
	templates map[TemplateSet][]string
	last      map[TemplateSet]int
	intn      func(n int) int
}

func NewTemplateRotator() TemplateRotator {
	return NewTemplateRotatorWith(defaultTemplates, nil)
}

// NewTemplateRotatorWith builds a rotator over custom template sets. A nil intn uses a
// time-seeded math/rand source.
func NewTemplateRotatorWith(templates map[TemplateSet][]string, intn func(n int) int) TemplateRotator {
	if intn == nil {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		intn = rnd.Intn
	}
	return &templateRotator{
		templates: templates,
		last:      map[TemplateSet]int{},
		intn:      intn,
	}
}

func (r *templateRotator) Pick(set TemplateSet) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	templates := r.templates[set]
	if len(templates) == 0 {
		return ""
	}

	last, seen := r.last[set]
	index := r.intn(len(templates))
	for seen && len(templates) > 1 && index == last {
		index = r.intn(len(templates))
	}

	r.last[set] = index
	return templates[index]
}

func (r *templateRotator) Render(template, link string) string {
	return strings.Replace(template, linkPlaceholder, link, 1)
}
