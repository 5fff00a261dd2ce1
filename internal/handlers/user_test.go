package handlers

import (
	"testing"

	"tablebook/internal/models"
)

func TestDefaultSettingsCustomer(t *testing.T) {
	settings := DefaultSettings(models.RoleCustomer)

	if !settings.Notifications.Email || !settings.Notifications.ReservationReminders {
		t.Fatal("expected email and reservation reminders on by default")
	}
	if settings.Notifications.Marketing {
		t.Fatal("expected marketing off by default")
	}
	if settings.Notifications.NewReviews {
		t.Fatal("customers must not get the owner-only newReviews toggle")
	}
	if settings.Privacy.ProfileVisibility != "public" {
		t.Fatalf("expected public profile by default, got %s", settings.Privacy.ProfileVisibility)
	}
	if settings.Personalization.Theme != "system" || settings.Personalization.TimeFormat != "12h" {
		t.Fatalf("unexpected personalization defaults: %+v", settings.Personalization)
	}
}

func TestDefaultSettingsRestaurantOwner(t *testing.T) {
	settings := DefaultSettings(models.RoleRestaurant)

	if !settings.Notifications.NewReviews {
		t.Fatal("expected owner accounts to receive new review notifications")
	}
	if !settings.Privacy.ShowReservations {
		t.Fatal("expected owner accounts to show reservations by default")
	}
}

func TestMergeSettingsPatchesOneSection(t *testing.T) {
	current := DefaultSettings(models.RoleCustomer)
	merged, err := MergeSettings(current, UpdateSettingsRequest{
		Notifications: &models.NotificationSettings{Email: false, Marketing: true},
	})
	if err != nil {
		t.Fatalf("MergeSettings returned error: %v", err)
	}
	if merged.Notifications.Email || !merged.Notifications.Marketing {
		t.Fatalf("notifications not applied: %+v", merged.Notifications)
	}
	if merged.Privacy != current.Privacy || merged.Personalization != current.Personalization {
		t.Fatal("untouched sections must be preserved")
	}
}

func TestMergeSettingsRejectsBadEnums(t *testing.T) {
	current := DefaultSettings(models.RoleCustomer)

	if _, err := MergeSettings(current, UpdateSettingsRequest{
		Privacy: &models.PrivacySettings{ProfileVisibility: "invisible"},
	}); err == nil {
		t.Fatal("expected invalid profileVisibility to be rejected")
	}

	if _, err := MergeSettings(current, UpdateSettingsRequest{
		Personalization: &models.PersonalizationSettings{
			Theme:      "neon",
			DateFormat: "MM/DD/YYYY",
			TimeFormat: "12h",
		},
	}); err == nil {
		t.Fatal("expected invalid theme to be rejected")
	}

	if _, err := MergeSettings(current, UpdateSettingsRequest{
		Personalization: &models.PersonalizationSettings{
			Theme:      "dark",
			DateFormat: "YYYY/MM/DD",
			TimeFormat: "12h",
		},
	}); err == nil {
		t.Fatal("expected invalid dateFormat to be rejected")
	}

	if _, err := MergeSettings(current, UpdateSettingsRequest{
		Personalization: &models.PersonalizationSettings{
			Theme:      "dark",
			DateFormat: "YYYY-MM-DD",
			TimeFormat: "48h",
		},
	}); err == nil {
		t.Fatal("expected invalid timeFormat to be rejected")
	}
}
