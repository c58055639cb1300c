package service

import (
	"strings"
	"testing"
)

func TestAcceptedSubjectNamesJobAndCrew(t *testing.T) {
	got := acceptedSubject("Bartender", "Bar Crew")
	if got != "Din ansøgning til Bartender hos Bar Crew er godkendt!" {
		t.Errorf("subject = %q", got)
	}
}

func TestAcceptedBody(t *testing.T) {
	body := acceptedBody("Mikkel Jensen", "Bartender", "Bar Crew", "https://tickets.example.org/42")

	for _, want := range []string{
		"Hej Mikkel Jensen",
		"<strong>Bartender</strong>",
		"<strong>Bar Crew</strong>",
		`href="https://tickets.example.org/42"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestAcceptedBodyWithoutNameAndTicket(t *testing.T) {
	body := acceptedBody("", "Bartender", "Bar Crew", "")

	if !strings.Contains(body, "<p>Hej,</p>") {
		t.Error("missing generic greeting")
	}
	if strings.Contains(body, "href=") {
		t.Error("no ticket link expected")
	}
}
