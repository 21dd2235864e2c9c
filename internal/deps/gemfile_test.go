package deps

import "testing"

func TestRenderGems(t *testing.T) {
	groups := []Group{
		{Env: Runtime, Declarations: []Declaration{
			{Name: "rails", Constraint: "~> 4.2"},
			{Name: "paperclip", Constraint: "~> 4.3"},
			{Name: "puma"},
		}},
		{Env: DevelopmentTest, Declarations: []Declaration{
			{Name: "pry-rails"},
			{Name: "rspec-rails", Constraint: ">= 3.0, < 4.0"},
		}},
		{Env: Test, Declarations: []Declaration{
			{Name: "shoulda-matchers"},
		}},
	}

	want := `gem 'rails', '~> 4.2'
gem 'paperclip', '~> 4.3'
gem 'puma'

group :development, :test do
  gem 'pry-rails'
  gem 'rspec-rails', '>= 3.0', '< 4.0'
end

group :test do
  gem 'shoulda-matchers'
end
`
	if got := RenderGems(groups); got != want {
		t.Errorf("RenderGems() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderGemsEmpty(t *testing.T) {
	if got := RenderGems(nil); got != "" {
		t.Errorf("RenderGems(nil) = %q, want empty", got)
	}
}

func TestGemfileWriter(t *testing.T) {
	var got GemfileData
	w := GemfileWriter{
		RubyVersion: "2.2.3",
		Write: func(d GemfileData) error {
			got = d
			return nil
		},
	}

	c := NewCollector()
	if err := c.Declare("rails", "~> 4.2"); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if err := c.Flush(w); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if got.Source != DefaultSource {
		t.Errorf("Source = %q, want %q", got.Source, DefaultSource)
	}
	if got.RubyVersion != "2.2.3" {
		t.Errorf("RubyVersion = %q, want 2.2.3", got.RubyVersion)
	}
	if got.Gems != "gem 'rails', '~> 4.2'\n" {
		t.Errorf("Gems = %q", got.Gems)
	}
}

func TestGemfileWriterWithoutWrite(t *testing.T) {
	if err := (GemfileWriter{}).WriteManifest(nil); err == nil {
		t.Fatal("WriteManifest() expected error without Write func")
	}
}
