package scraper

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

const microfonPage = `<html><body>
<div class="list">
  <div class="scholarship-item">
    <img alt="Burs İlanı Görseli" src="/images/burs-1.png">
    <p class="styled-h6">Eğitim Vakfı</p>
    <a href="/scholarship/lise-bursu-2025">Lise Bursu 2025</a>
    <div class="istbwq"><span>Tüm Türkiye</span><span> </span><span>Lise</span></div>
    <div class="jGQIFV"><span>2.000 TL</span><p>9 Ay</p></div>
    <p class="clamp-3">Başarılı öğrencilere karşılıksız burs.</p>
    <div class="dates">Başvuru: <b>01.09.2025 - 30.09.2025</b></div>
  </div>
  <div class="scholarship-item">
    <a href="/scholarship/lise-bursu-2025">Lise Bursu 2025</a>
  </div>
  <div class="scholarship-item">
    <a href="/scholarship/ikinci">İkinci Burs</a>
  </div>
  <div class="scholarship-item"><p>Bağlantısız kart</p></div>
</div>
</body></html>`

func TestMicrofon_FetchScholarships(t *testing.T) {
	server := newTestServer(t, http.StatusOK, microfonPage, func(r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/scholarship" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if q.Get("level") != LevelHighSchool || q.Get("pageSize") != "20" || q.Get("pageNumber") != "2" || q.Get("locationId") != "223" {
			t.Errorf("query = %v", q)
		}
	})

	m := NewMicrofon(testOptions(server.URL), 0)
	result, err := m.FetchScholarships(context.Background(), "Lise", 2)
	if err != nil {
		t.Fatalf("FetchScholarships: %v", err)
	}

	if result.Source != listing.SourceMicrofon || result.SelectedLevel != LevelHighSchool || result.Page != 2 {
		t.Errorf("envelope = %+v", result)
	}
	if result.NoResults {
		t.Error("NoResults should be false")
	}
	if result.ScholarshipCount != 2 {
		t.Fatalf("ScholarshipCount = %d, want 2", result.ScholarshipCount)
	}

	s := result.Scholarships[0]
	want := listing.Scholarship{
		ID:               listing.GenerateID(listing.SourceMicrofon, server.URL+"/scholarship/lise-bursu-2025"),
		Provider:         "Eğitim Vakfı",
		Title:            "Lise Bursu 2025",
		DetailURL:        server.URL + "/scholarship/lise-bursu-2025",
		ImageURL:         server.URL + "/images/burs-1.png",
		ApplicationDates: "01.09.2025 - 30.09.2025",
		Location:         "Tüm Türkiye",
		Level:            "Lise",
		Amount:           "2.000 TL",
		Duration:         "9 Ay",
		Description:      "Başarılı öğrencilere karşılıksız burs.",
	}
	if *s != want {
		t.Errorf("scholarship =\n%+v\nwant\n%+v", *s, want)
	}

	if second := result.Scholarships[1]; second.Title != "İkinci Burs" || second.ApplicationDates != "" {
		t.Errorf("second = %+v", second)
	}
}

func TestMicrofon_NoResults(t *testing.T) {
	page := `<html><body><div><p>Aradığınız kriterlere uygun bir sonuç bulunamadı.</p></div>
		<div class="scholarship-item"><a href="/scholarship/x">x</a></div></body></html>`
	server := newTestServer(t, http.StatusOK, page, nil)

	result, err := NewMicrofon(testOptions(server.URL), 0).FetchScholarships(context.Background(), "university", 1)
	if err != nil {
		t.Fatalf("FetchScholarships: %v", err)
	}
	if !result.NoResults || result.ScholarshipCount != 0 || len(result.Scholarships) != 0 {
		t.Errorf("result = %+v, want no results", result)
	}
}

func TestMicrofon_InvalidInput(t *testing.T) {
	var hits atomic.Int32
	server := newTestServer(t, http.StatusOK, microfonPage, func(*http.Request) { hits.Add(1) })
	m := NewMicrofon(testOptions(server.URL), 0)

	if _, err := m.FetchScholarships(context.Background(), "kreş", 1); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("error = %v, want ErrInvalidLevel", err)
	}
	if _, err := m.FetchScholarships(context.Background(), "lise", 0); err == nil {
		t.Error("page 0 should be rejected")
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server hit %d times for invalid input", n)
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"HighSchool", LevelHighSchool, false},
		{"lise", LevelHighSchool, false},
		{"LISE", LevelHighSchool, false},
		{" Lise ", LevelHighSchool, false},
		{"University", LevelUniversity, false},
		{"Üniversite", LevelUniversity, false},
		{"universite", LevelUniversity, false},
		{"PrimarySchool", LevelPrimarySchool, false},
		{"İlkokul", LevelPrimarySchool, false},
		{"ilköğretim", LevelPrimarySchool, false},
		{"", "", true},
		{"master", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("error %v does not wrap ErrInvalidLevel", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMicrofon_PageURL(t *testing.T) {
	m := NewMicrofon(Options{}, 34)
	want := MicrofonURL + "/scholarship?level=University&locationId=34&pageNumber=3&pageSize=17"
	if got := m.PageURL(LevelUniversity, 3); got != want {
		t.Errorf("PageURL = %q, want %q", got, want)
	}
}
